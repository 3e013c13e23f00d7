/*
Package runner drives Turing machines.

Execute is the step loop shared by every frontend: it steps a machine until
it halts, honoring context cancellation and an optional step bound. Runner
builds the interactive driver on top of it. For each input line it
initializes a fresh machine with one symbol per rune, renders the window
around the head before every step, pauses between steps and finally prints
"Input accepted: <bool>".

	r := runner.NewRunner(runner.WithDelay(time.Second), runner.WithWindow(10))
	if err := r.Run(ctx, prog); err != nil {
		log.Fatal(err)
	}
*/
package runner
