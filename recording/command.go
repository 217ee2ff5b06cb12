package recording

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdSave    CommandType = iota // Save current state
	CmdRestore                    // Restore previous state

	// Drawing commands
	CmdFillPath   // Fill a path
	CmdStrokePath // Stroke a path
	CmdDrawText   // Draw a line of text
)

var commandTypeNames = [...]string{
	CmdSave:       "Save",
	CmdRestore:    "Restore",
	CmdFillPath:   "FillPath",
	CmdStrokePath: "StrokePath",
	CmdDrawText:   "DrawText",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// PathRef is a reference to a path in the resource pool.
type PathRef uint32

// BrushRef is a reference to a brush in the resource pool.
type BrushRef uint32

// SaveCommand saves the current graphics state.
type SaveCommand struct{}

// Type implements Command.
func (SaveCommand) Type() CommandType { return CmdSave }

// RestoreCommand restores the previously saved graphics state.
type RestoreCommand struct{}

// Type implements Command.
func (RestoreCommand) Type() CommandType { return CmdRestore }

// FillPathCommand fills a path with a brush using the non-zero rule.
type FillPathCommand struct {
	Path  PathRef
	Brush BrushRef
}

// Type implements Command.
func (FillPathCommand) Type() CommandType { return CmdFillPath }

// StrokePathCommand strokes a path with a brush.
type StrokePathCommand struct {
	Path   PathRef
	Brush  BrushRef
	Stroke Stroke
}

// Type implements Command.
func (StrokePathCommand) Type() CommandType { return CmdStrokePath }

// DrawTextCommand draws a single line of text.
type DrawTextCommand struct {
	// Text is the string to render.
	Text string
	// X is the anchor position; see Align.
	X float64
	// Y is the baseline.
	Y float64
	// FontSize is the font size in figure units.
	FontSize float64
	// Align selects which part of the text sits at X.
	Align Align
	// Brush references the text color in the resource pool.
	Brush BrushRef
}

// Type implements Command.
func (DrawTextCommand) Type() CommandType { return CmdDrawText }

// Align is the horizontal alignment of text relative to its anchor.
type Align uint8

const (
	// AlignLeft places the start of the text at the anchor.
	AlignLeft Align = iota
	// AlignCenter centers the text on the anchor.
	AlignCenter
	// AlignRight places the end of the text at the anchor.
	AlignRight
)

// Factor returns the fraction of the text width that lies left of the
// anchor: 0, 0.5 or 1.
func (a Align) Factor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	default:
		return 0
	}
}

// LineCap specifies the shape of line endpoints.
type LineCap uint8

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// Stroke defines the style for stroking paths.
type Stroke struct {
	// Width is the line width in figure units.
	Width float64
	// Cap is the shape of line endpoints.
	Cap LineCap
	// DashPattern alternates dash and gap lengths; nil means a solid line.
	DashPattern []float64
	// DashOffset is the starting offset into the dash pattern.
	DashOffset float64
}

// DefaultStroke returns a solid 1-unit stroke with butt caps.
func DefaultStroke() Stroke {
	return Stroke{Width: 1.0, Cap: LineCapButt}
}

// IsDashed reports whether the stroke has a usable dash pattern.
func (s Stroke) IsDashed() bool {
	for _, v := range s.DashPattern {
		if v > 0 {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the Stroke.
func (s Stroke) Clone() Stroke {
	result := s
	if s.DashPattern != nil {
		result.DashPattern = make([]float64, len(s.DashPattern))
		copy(result.DashPattern, s.DashPattern)
	}
	return result
}
