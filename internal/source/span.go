package source

import (
	"fmt"
)

// Span is a half-open byte interval [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// NewSpan builds a span and panics when start > end.
func NewSpan(file FileID, start, end uint32) Span {
	if start > end {
		panic(fmt.Sprintf("source: span start %d > end %d", start, end))
	}
	return Span{File: file, Start: start, End: end}
}

// Point returns an empty span positioned at off.
func Point(file FileID, off uint32) Span {
	return Span{File: file, Start: off, End: off}
}

// NoSpan is the empty span of NoFile.
func NoSpan() Span {
	return Span{File: NoFile}
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Compare orders spans by file, then start, then end.
func (s Span) Compare(other Span) int {
	switch {
	case s.File != other.File:
		if s.File < other.File {
			return -1
		}
		return 1
	case s.Start != other.Start:
		if s.Start < other.Start {
			return -1
		}
		return 1
	case s.End != other.End:
		if s.End < other.End {
			return -1
		}
		return 1
	}
	return 0
}

// Contains reports whether off lies inside the span. An empty span contains nothing.
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

// Cover returns the smallest span including both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
