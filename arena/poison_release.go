//go:build !framemem_debug

package arena

// Debug reports whether the framemem_debug build tag is set.
const Debug = false
