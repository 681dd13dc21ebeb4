// Package format sniffs a byte stream's container kind and implements the
// two header checks that don't need an archive walk: the legacy
// tensor-archive magic and the numpy .npy array header. The scan package
// does the scanning that follows them.
package format
