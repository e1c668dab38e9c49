package mmap

// MADV_DONTNEED on a private anonymous mapping discards the pages; the next
// touch faults in zero pages.
const clearOnCommit = false
