package track

// Feature is a transcript positioned on screen by the layout pass.
// X is the screen x of Start; Y and Height give the feature box.
type Feature struct {
	ID     string
	Label  string
	Start  int64
	End    int64
	Strand int8 // +1 or -1
	X      float64
	Y      float64
	Height float64
	Color  string // overrides the track colour when set

	Exons IntervalSet
	CDS   IntervalSet
}

// IsForwardStrand returns true if the feature is on the forward strand.
func (f *Feature) IsForwardStrand() bool {
	return f.Strand > 0
}
