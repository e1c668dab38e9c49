// Package scratch provides per-goroutine pools of scratch arenas.
//
// A Pool owns a small fixed number of arenas. Get checks one out together with
// its current position; Release rewinds it to that position and puts it back.
// A goroutine may hold up to Depth checkouts at once, which covers nested
// helpers that each need temporary memory. Running out is fatal.
//
// A Pool has no locks and must stay on one goroutine at a time. A Registry
// hands every worker goroutine its own Pool and takes it back when the worker
// is done:
//
//	reg := scratch.NewRegistry(scratch.Config{Depth: 4})
//	defer reg.Close()
//
//	err := reg.Do(func(p *scratch.Pool) error {
//		s := p.Get()
//		defer s.Release()
//
//		buf := s.Alloc(4096, 16)
//		...
//	})
package scratch
