package qasm

import (
	"fmt"
	"math"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/oqtopus-team/qopt/ir"
)

// maxReportedErrors caps how many syntax errors one parse reports.
const maxReportedErrors = 10

// Register is one declared qubit or bit register.
type Register struct {
	Name    string
	Size    int
	IsQubit bool
}

// Operand names one element of a register, e.g. q[2].
type Operand struct {
	Register string
	Index    int
}

// Measurement is a parsed "c[i] = measure q[j]" statement. Measurements are
// not circuit gates: they are preserved as data for the consumer and ignored
// by optimization and routing.
type Measurement struct {
	Bit   Operand
	Qubit Operand
}

// Result is the output contract of the parser: a circuit, the qubit count it
// carries, and any non-fatal diagnostics.
type Result struct {
	Circuit      *ir.Circuit
	Warnings     []Diagnostic
	Measurements []Measurement
}

// ParseQASM parses an OpenQASM 3.0 program (the subset with version and
// include headers, qubit/bit declarations, standard gate applications with
// pi-arithmetic parameters, and measurement) into a circuit.
func ParseQASM(source string) (*Result, error) {
	if source == "" {
		msg := "no input qasm"
		zap.L().Info(msg)
		return nil, fmt.Errorf(msg)
	}
	p := newParser(source)
	result, err := p.parse()
	if err != nil {
		zap.L().Info(fmt.Sprintf("failed to parse qasm/reason:%s", err))
		zap.L().Debug(fmt.Sprintf("qasm:\n%s", source))
		return nil, err
	}
	return result, nil
}

type parsedGate struct {
	kind     ir.GateKind
	operands []Operand
	param    *float64
	loc      Location
}

type parser struct {
	lexer     *Lexer
	current   Token
	previous  Token
	panicMode bool

	errors   []Diagnostic
	warnings []Diagnostic

	registers     []Register
	registerIndex map[string]int
	gates         []parsedGate
	measurements  []Measurement
}

func newParser(source string) *parser {
	p := &parser{
		lexer:         NewLexer(source),
		registerIndex: make(map[string]int),
	}
	p.current = p.lexer.Next()
	return p
}

func (p *parser) parse() (*Result, error) {
	p.parseVersionDeclaration()
	for !p.check(TokenEOF) && len(p.errors) < maxReportedErrors {
		p.parseStatement()
	}
	circuit, measurements := p.buildCircuit()
	if len(p.errors) > 0 {
		var err error
		for _, d := range p.errors {
			err = multierr.Append(err, d)
		}
		return nil, err
	}
	return &Result{
		Circuit:      circuit,
		Warnings:     p.warnings,
		Measurements: measurements,
	}, nil
}

// -------------------------------------------------------------------------
// token management
// -------------------------------------------------------------------------

func (p *parser) advance() Token {
	p.previous = p.current
	for {
		p.current = p.lexer.Next()
		if !p.current.IsError() {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
	return p.previous
}

func (p *parser) check(t TokenType) bool {
	return p.current.Type == t
}

func (p *parser) match(t TokenType) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(t TokenType, message string) {
	if p.check(t) {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

// -------------------------------------------------------------------------
// error handling
// -------------------------------------------------------------------------

func (p *parser) errorAtCurrent(message string) {
	p.errorAt(p.current, message)
}

func (p *parser) errorAtPrevious(message string) {
	p.errorAt(p.previous, message)
}

func (p *parser) errorAt(tok Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	if !tok.IsEOF() && !tok.IsError() {
		message += fmt.Sprintf(" (got %q)", tok.Lexeme)
	}
	p.errors = append(p.errors, Diagnostic{Kind: DiagSyntax, Message: message, Loc: tok.Loc})
}

func (p *parser) semanticError(message string, loc Location) {
	p.errors = append(p.errors, Diagnostic{Kind: DiagSemantic, Message: message, Loc: loc})
}

func (p *parser) warn(message string, loc Location) {
	p.warnings = append(p.warnings, Diagnostic{Kind: DiagSyntax, Message: message, Loc: loc})
}

// synchronize skips tokens until a statement boundary so one error does not
// cascade into nonsense.
func (p *parser) synchronize() {
	p.panicMode = false
	for !p.check(TokenEOF) {
		if p.previous.Type == TokenSemicolon {
			return
		}
		switch {
		case p.check(TokenQubit), p.check(TokenBit), p.check(TokenInclude), p.check(TokenMeasure):
			return
		case p.current.IsGate():
			return
		}
		p.advance()
	}
}

// -------------------------------------------------------------------------
// grammar
// -------------------------------------------------------------------------

func (p *parser) parseVersionDeclaration() {
	p.consume(TokenOpenQASM, "expected 'OPENQASM' version declaration")
	if p.panicMode {
		p.synchronize()
		return
	}
	if !p.check(TokenFloat) && !p.check(TokenInteger) {
		p.errorAtCurrent("expected version number after 'OPENQASM'")
		p.synchronize()
		return
	}
	versionToken := p.current
	p.advance()
	version, err := strconv.ParseFloat(versionToken.Lexeme, 64)
	if err != nil || version < 3.0 || version >= 4.0 {
		p.warn("only OpenQASM 3.x is fully supported", versionToken.Loc)
	}
	p.consume(TokenSemicolon, "expected ';' after version declaration")
	if p.panicMode {
		p.synchronize()
	}
}

func (p *parser) parseStatement() {
	switch {
	case p.match(TokenInclude):
		p.parseInclude()
	case p.match(TokenQubit):
		p.parseRegisterDeclaration(true)
	case p.match(TokenBit):
		p.parseRegisterDeclaration(false)
	case p.current.IsGate():
		p.parseGateApplication()
	case p.check(TokenIdentifier):
		p.parseMeasurementAssignment()
	case p.match(TokenMeasure):
		p.parseStandaloneMeasure()
	default:
		p.errorAtCurrent("expected statement")
		p.synchronize()
		return
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *parser) parseInclude() {
	if !p.check(TokenString) {
		p.errorAtCurrent("expected filename string after 'include'")
		return
	}
	filename := p.current
	p.advance()
	// stdgates.inc defines the standard gates, which are built in; anything
	// else is acknowledged and skipped.
	if filename.Lexeme != "stdgates.inc" {
		p.warn("include file ignored (only stdgates.inc is supported)", filename.Loc)
	}
	p.consume(TokenSemicolon, "expected ';' after include statement")
}

func (p *parser) parseRegisterDeclaration(isQubit bool) {
	keyword := "qubit"
	if !isQubit {
		keyword = "bit"
	}
	size := 1
	if p.match(TokenLeftBracket) {
		size = p.parseIntegerLiteral(keyword + " array size")
		p.consume(TokenRightBracket, "expected ']' after "+keyword+" size")
	}
	if !p.check(TokenIdentifier) {
		p.errorAtCurrent("expected register name after '" + keyword + "'")
		return
	}
	name := p.current.Lexeme
	nameLoc := p.current.Loc
	p.advance()
	if _, exists := p.registerIndex[name]; exists {
		p.semanticError(fmt.Sprintf("register %q already declared", name), nameLoc)
		return
	}
	p.registerIndex[name] = len(p.registers)
	p.registers = append(p.registers, Register{Name: name, Size: size, IsQubit: isQubit})
	p.consume(TokenSemicolon, "expected ';' after "+keyword+" declaration")
}

func (p *parser) parseGateApplication() {
	gateToken := p.current
	kind := tokenToGateKind(gateToken.Type)
	p.advance()

	var param *float64
	if gateToken.IsParameterizedGate() {
		p.consume(TokenLeftParen, "expected '(' for gate parameter")
		value := p.parseExpression()
		p.consume(TokenRightParen, "expected ')' after gate parameter")
		param = &value
	}

	operands := []Operand{p.parseQubitOperand()}
	if gateToken.IsTwoQubitGate() {
		p.consume(TokenComma, "expected ',' between qubit operands")
		operands = append(operands, p.parseQubitOperand())
	}
	p.consume(TokenSemicolon, "expected ';' after gate application")

	if !p.panicMode {
		p.gates = append(p.gates, parsedGate{
			kind:     kind,
			operands: operands,
			param:    param,
			loc:      gateToken.Loc,
		})
	}
}

func (p *parser) parseQubitOperand() Operand {
	if !p.check(TokenIdentifier) {
		p.errorAtCurrent("expected qubit register name")
		return Operand{}
	}
	reg := p.current.Lexeme
	p.advance()
	index := 0
	if p.match(TokenLeftBracket) {
		index = p.parseIntegerLiteral("qubit index")
		p.consume(TokenRightBracket, "expected ']' after qubit index")
	}
	return Operand{Register: reg, Index: index}
}

func (p *parser) parseMeasurementAssignment() {
	target := Operand{Register: p.current.Lexeme}
	p.advance()
	if p.match(TokenLeftBracket) {
		target.Index = p.parseIntegerLiteral("bit index")
		p.consume(TokenRightBracket, "expected ']' after bit index")
	}
	p.consume(TokenEquals, "expected '=' in measurement assignment")
	p.consume(TokenMeasure, "expected 'measure' after '='")
	if !p.check(TokenIdentifier) {
		p.errorAtCurrent("expected qubit register name after 'measure'")
		return
	}
	source := Operand{Register: p.current.Lexeme}
	p.advance()
	if p.match(TokenLeftBracket) {
		source.Index = p.parseIntegerLiteral("qubit index")
		p.consume(TokenRightBracket, "expected ']' after qubit index")
	}
	p.consume(TokenSemicolon, "expected ';' after measurement")
	if !p.panicMode {
		p.measurements = append(p.measurements, Measurement{Bit: target, Qubit: source})
	}
}

func (p *parser) parseStandaloneMeasure() {
	if !p.check(TokenIdentifier) {
		p.errorAtCurrent("expected qubit register name after 'measure'")
		return
	}
	p.advance()
	if p.match(TokenLeftBracket) {
		p.parseIntegerLiteral("qubit index")
		p.consume(TokenRightBracket, "expected ']' after qubit index")
	}
	p.consume(TokenSemicolon, "expected ';' after measurement")
	p.warn("standalone measure discards result (use 'c = measure q')", p.previous.Loc)
}

func (p *parser) parseIntegerLiteral(context string) int {
	if !p.check(TokenInteger) {
		p.errorAtCurrent("expected integer for " + context)
		return 0
	}
	value, err := strconv.Atoi(p.current.Lexeme)
	if err != nil {
		p.errorAtCurrent("invalid integer for " + context)
		return 0
	}
	p.advance()
	return value
}

// -------------------------------------------------------------------------
// parameter expressions: pi, literals, + - * /, unary minus, parentheses
// -------------------------------------------------------------------------

func (p *parser) parseExpression() float64 {
	return p.parseAdditive()
}

func (p *parser) parseAdditive() float64 {
	left := p.parseMultiplicative()
	for p.check(TokenPlus) || p.check(TokenMinus) {
		op := p.current.Type
		p.advance()
		right := p.parseMultiplicative()
		if op == TokenPlus {
			left += right
		} else {
			left -= right
		}
	}
	return left
}

func (p *parser) parseMultiplicative() float64 {
	left := p.parseUnary()
	for p.check(TokenStar) || p.check(TokenSlash) {
		op := p.current.Type
		p.advance()
		right := p.parseUnary()
		if op == TokenStar {
			left *= right
		} else {
			if right == 0.0 {
				p.errorAtPrevious("division by zero in gate parameter")
				return 0.0
			}
			left /= right
		}
	}
	return left
}

func (p *parser) parseUnary() float64 {
	if p.match(TokenMinus) {
		return -p.parseUnary()
	}
	if p.match(TokenPlus) {
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() float64 {
	if p.match(TokenPi) {
		return math.Pi
	}
	if p.check(TokenInteger) || p.check(TokenFloat) {
		value, err := strconv.ParseFloat(p.current.Lexeme, 64)
		if err != nil {
			p.errorAtCurrent("invalid number in expression")
			return 0.0
		}
		p.advance()
		return value
	}
	if p.match(TokenLeftParen) {
		value := p.parseExpression()
		p.consume(TokenRightParen, "expected ')' after expression")
		return value
	}
	p.errorAtCurrent("expected number or 'pi' in expression")
	return 0.0
}

// -------------------------------------------------------------------------
// circuit construction
// -------------------------------------------------------------------------

// buildCircuit lays declared qubit registers out contiguously in declaration
// order and resolves every operand against them.
func (p *parser) buildCircuit() (*ir.Circuit, []Measurement) {
	totalQubits := 0
	qubitOffset := make(map[string]int)
	for _, reg := range p.registers {
		if reg.IsQubit {
			qubitOffset[reg.Name] = totalQubits
			totalQubits += reg.Size
		}
	}
	if totalQubits == 0 {
		totalQubits = 1
		p.warn("no qubit declarations found, defaulting to 1 qubit", Location{Line: 1, Column: 1})
	}

	circuit, err := ir.NewCircuit(totalQubits)
	if err != nil {
		p.semanticError(err.Error(), Location{Line: 1, Column: 1})
		return nil, nil
	}

	for _, pg := range p.gates {
		qubits := make([]int, 0, len(pg.operands))
		ok := true
		for _, op := range pg.operands {
			abs, err := p.resolveQubitOperand(op, qubitOffset, pg.loc)
			if err != nil {
				ok = false
				break
			}
			qubits = append(qubits, abs)
		}
		if !ok {
			continue
		}
		gate, err := ir.NewGate(pg.kind, qubits, pg.param)
		if err != nil {
			p.semanticError(err.Error(), pg.loc)
			continue
		}
		if err := circuit.Add(gate); err != nil {
			p.semanticError(err.Error(), pg.loc)
		}
	}
	return circuit, p.measurements
}

func (p *parser) resolveQubitOperand(op Operand, offsets map[string]int, loc Location) (int, error) {
	offset, ok := offsets[op.Register]
	if !ok {
		err := fmt.Errorf("qubit register %q is not declared", op.Register)
		p.semanticError(err.Error(), loc)
		return 0, err
	}
	reg := p.registers[p.registerIndex[op.Register]]
	if op.Index < 0 || op.Index >= reg.Size {
		err := fmt.Errorf("index %d out of range for register %q of size %d",
			op.Index, op.Register, reg.Size)
		p.semanticError(err.Error(), loc)
		return 0, err
	}
	return offset + op.Index, nil
}

func tokenToGateKind(t TokenType) ir.GateKind {
	switch t {
	case TokenGateH:
		return ir.GateH
	case TokenGateX:
		return ir.GateX
	case TokenGateY:
		return ir.GateY
	case TokenGateZ:
		return ir.GateZ
	case TokenGateS:
		return ir.GateS
	case TokenGateSdg:
		return ir.GateSdg
	case TokenGateT:
		return ir.GateT
	case TokenGateTdg:
		return ir.GateTdg
	case TokenGateRx:
		return ir.GateRx
	case TokenGateRy:
		return ir.GateRy
	case TokenGateRz:
		return ir.GateRz
	case TokenGateCX:
		return ir.GateCNOT
	case TokenGateCZ:
		return ir.GateCZ
	case TokenGateSwap:
		return ir.GateSWAP
	default:
		return ir.GateH
	}
}
