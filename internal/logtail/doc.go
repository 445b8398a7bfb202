// Package logtail reads the tail of perch's log file.
//
// Read uses a ring buffer of maxLines entries, so memory stays proportional to
// the lines returned rather than the file size. Filter drops lines below a
// level, using the short level names the log handler writes.
//
// Missing files are not an error: a fresh install has no log yet.
package logtail
