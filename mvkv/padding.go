package mvkv

// cacheLinePad is embedded directly in Entry (entry.go) so that one
// writer's flag flip can't invalidate a reader's view of a neighboring
// slot's cache line while it traverses a VersionedValue's history. Most
// production architectures this runs on use 64-byte lines; we don't have
// a portable way to query the real line size without an extra
// dependency, so this is a best-effort fixed pad rather than an exact
// one.
type cacheLinePad [64]byte
