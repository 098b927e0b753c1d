package tape

// Node is anything that can report where it came from.
type Node interface {
	Pos() Position
}

// Instruction is a node of the structured program tree.
type Instruction interface {
	Node
	String() string
	instrNode()
}

// Op names one of the six atomic tape operations.
type Op byte

const (
	OpMoveRight Op = iota + 1
	OpMoveLeft
	OpIncrement
	OpDecrement
	OpInput
	OpOutput
)

func (op Op) String() string {
	switch op {
	case OpMoveRight:
		return "MoveRight"
	case OpMoveLeft:
		return "MoveLeft"
	case OpIncrement:
		return "Increment"
	case OpDecrement:
		return "Decrement"
	case OpInput:
		return "Input"
	case OpOutput:
		return "Output"
	default:
		return "Unknown"
	}
}

// Symbol returns the source character for op.
func (op Op) Symbol() string {
	switch op {
	case OpMoveRight:
		return string(TokenMoveRight)
	case OpMoveLeft:
		return string(TokenMoveLeft)
	case OpIncrement:
		return string(TokenIncrement)
	case OpDecrement:
		return string(TokenDecrement)
	case OpInput:
		return string(TokenInput)
	case OpOutput:
		return string(TokenOutput)
	default:
		return ""
	}
}

// OpInstr is a single atomic operation.
type OpInstr struct {
	Op       Op
	position Position
}

func (i *OpInstr) instrNode()     {}
func (i *OpInstr) Pos() Position  { return i.position }
func (i *OpInstr) String() string { return i.Op.String() }

// LoopInstr repeats Body while the current cell is nonzero. Pos is the
// position of the opening bracket.
type LoopInstr struct {
	Body     []Instruction
	position Position
}

func (i *LoopInstr) instrNode()     {}
func (i *LoopInstr) Pos() Position  { return i.position }
func (i *LoopInstr) String() string { return "Loop" }

func opForToken(tt TokenType) (Op, bool) {
	switch tt {
	case TokenMoveRight:
		return OpMoveRight, true
	case TokenMoveLeft:
		return OpMoveLeft, true
	case TokenIncrement:
		return OpIncrement, true
	case TokenDecrement:
		return OpDecrement, true
	case TokenInput:
		return OpInput, true
	case TokenOutput:
		return OpOutput, true
	default:
		return 0, false
	}
}
