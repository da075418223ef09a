package beacon

// Runnable is the interface implemented by scheduled loops.
// The Run method contains the loop's logic and is called on every due tick.
type Runnable interface {
	Run()
}

var _ Runnable = (*Applicator)(nil)
