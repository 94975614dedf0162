// Package xpbridge provides a typed marshalling core for calling objects
// implemented on one side of a language boundary from dynamically typed
// callers on the other.
//
// A call travels through a statically declared interface contract. The
// caller hands dynamic values to the dispatcher, which resolves the
// method's signature, coerces each argument to its declared native type,
// invokes the native implementation and lifts out-parameters back into
// caller slots.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	xpbridge/            Root package with the Target, Object and Call contracts
//	├── schema/          Type tags, signatures, interfaces and the Resolver
//	├── value/           Caller-side tagged union and mutable output slots
//	├── variant/         Type-erased variant container
//	├── marshal/         Coercion, array/size pairing and variant boxing
//	├── dispatch/        Call dispatcher and per-call frames
//	├── gateway/         Go structs exposed as native targets via reflection
//	├── wasmimpl/        WebAssembly modules exposed as native targets
//	├── errors/          Structured error types for debugging
//	└── cmd/xpcall/      Command line driver
//
// # Quick Start
//
// Register an interface, expose an implementation and call it:
//
//	r := schema.NewResolver()
//	if err := r.LoadYAML(f); err != nil {
//	    log.Fatal(err)
//	}
//	r.Freeze()
//
//	target, err := gateway.New(r, &Calculator{}, "calc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d := dispatch.New(r, dispatch.DefaultOptions())
//	res, err := d.Invoke(ctx, target, "add", value.Int(2), value.Int(3))
//	fmt.Println(res.Return) // 5
//
// # Native Representation
//
// Every declared type tag has one native Go type. Nullable string families
// use the wrapper types in this package so that null and empty stay
// distinct; fixed strings are plain byte or UTF-16 slices and never null.
//
// # Thread Safety
//
// A frozen Resolver and a Dispatcher are safe for concurrent use. Whether
// concurrent calls may reach the same Target is up to the Target.
package xpbridge
