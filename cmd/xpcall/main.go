// Command xpcall invokes methods and accessors across the bridge, on the
// built-in test component or on a WebAssembly module described by WIT.
//
//	xpcall call do_long 5 2
//	xpcall get long_value
//	xpcall --wasm calc.wasm --wit calc.wit call add 2 40
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		stop()
		os.Exit(1)
	}
}
