// Package archive walks the two nested-container formats tensor archives
// show up in: zip and 7z. Each walker only picks which members to hand on
// (by extension, and for zip also by leading bytes); neither scans a member
// itself — each takes a callback supplied by the scan package so archive
// never needs to import it back, avoiding a dependency cycle between
// "what container holds this" and "what does scanning a member mean".
package archive
