// Package framemem provides frame-scoped memory for Go programs: arenas over
// reserved virtual memory, per-goroutine scratch pools and generational handle
// maps.
//
// # Arenas
//
// An arena reserves a large range of address space up front and commits pages
// only as the bump pointer reaches them. Allocation is a pointer bump; freeing
// is a rewind to an earlier position:
//
//	a, _ := arena.New(1 << 30) // 1 GiB reserved, nothing committed
//	defer a.Release()
//
//	tmp := a.Temp()
//	verts := arena.MakeSlice[Vertex](a, 0, 1024)
//	...
//	tmp.End() // everything since Temp is gone
//
// Running past the capacity is fatal: Alloc panics with *arena.ExhaustedError.
// Arenas are meant to be over-provisioned so that this never happens.
//
// # Scratch Pools
//
// Short-lived temporaries come from a scratch pool owned by the calling
// goroutine. Up to Depth checkouts may be nested:
//
//	err := sys.Run(ctx, runtime.NumCPU(), func(ctx context.Context, p *scratch.Pool, worker int) error {
//		s := p.Get()
//		defer s.Release()
//		b := container.NewBuilder(s)
//		fmt.Fprintf(b, "worker %d", worker)
//		...
//	})
//
// # Handles
//
// handle.Map stores values densely and hands out 32-bit generational handles.
// A destroyed handle never resolves again, even after its slot is reused.
//
//	meshes := framemem.NewMap[Mesh](sys)
//	h := meshes.Insert(Mesh{...})
//	if m, ok := meshes.Get(h); ok { ... }
//	meshes.Destroy(h)
//
// # System
//
// System wires arenas and pools to one commit budget, worker limit, logger and
// metrics collector:
//
//	sys, _ := framemem.New(
//	    framemem.WithCommitLimit(512<<20),
//	    framemem.WithMaxWorkers(runtime.NumCPU()),
//	    framemem.WithMetricsCollector(&framemem.BasicMetricsCollector{}),
//	)
//	defer sys.Close()
//
// # Debug Builds
//
// Building with -tags framemem_debug poisons rewound memory and alignment
// padding with 0xDD and validates every handle map around each mutation.
//
// # Memory Safety
//
// Arena memory is invisible to the garbage collector. Types placed in an arena
// must not contain Go pointers; use arena.DefaultHeap for those. Slices and
// pointers into an arena are valid until the arena is rewound past them or
// released.
package framemem
