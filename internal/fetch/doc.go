// Package fetch is the thin HTTP adapter original_source's scan_url and
// scan_huggingface_model collapse into: fetch one byte blob, or list a
// HuggingFace repo's file manifest and fetch each recognized member. It
// holds no retry/backoff logic — one request per call, bounded by a
// context deadline — matching spec.md's framing of remote fetch as glue
// outside the scanning core.
package fetch
