package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singleInstructionVM loads one instruction word at 0x3000 followed by a
// HALT trap at 0x3001, then resets PC to the user origin.
func singleInstructionVM(t *testing.T, instr uint16) *VM {
	t.Helper()
	m := NewVM(WithStdio(bytes.NewReader(nil), new(bytes.Buffer)))
	img := imageBytes(0x3000, instr, 0xF025) // TRAP x25 (HALT)
	require.NoError(t, m.LoadImage(bytes.NewReader(img)))
	m.ResetPC()
	return m
}

func TestScenarioAddImmediate(t *testing.T) {
	// ADD R1, R2, #3: 0001 001 010 1 00011
	m := singleInstructionVM(t, 0b0001_001_010_1_00011)
	m.regs.Set(2, 5)

	require.NoError(t, m.Run())
	assert.Equal(t, uint16(8), m.regs.Get(1))
	assert.Equal(t, FlagPositive, m.regs.Cond())
}

func TestScenarioAddNegativeImmediate(t *testing.T) {
	// ADD R1, R1, #-1: 0001 001 001 1 11111
	m := singleInstructionVM(t, 0b0001_001_001_1_11111)
	m.regs.Set(1, 0)

	require.NoError(t, m.Run())
	assert.Equal(t, uint16(0xFFFF), m.regs.Get(1))
	assert.Equal(t, FlagNegative, m.regs.Cond())
}

func TestScenarioLDIIndirection(t *testing.T) {
	m := NewVM(WithStdio(bytes.NewReader(nil), new(bytes.Buffer)))
	// LDI R1, #1 at 0x3000; TRAP HALT at 0x3001; pointer word at 0x3002.
	img := imageBytes(0x3000,
		0b1010_001_000000001, // LDI R1, #1
		0xF025,               // HALT
		0x4000,               // pointer -> 0x4000
	)
	require.NoError(t, m.LoadImage(bytes.NewReader(img)))
	require.NoError(t, m.LoadImage(bytes.NewReader(imageBytes(0x4000, 0x0042))))
	m.ResetPC()

	require.NoError(t, m.Run())
	assert.Equal(t, uint16(0x0042), m.regs.Get(1))
	assert.Equal(t, FlagPositive, m.regs.Cond())
}

func TestScenarioBRnzpUnconditional(t *testing.T) {
	m := NewVM(WithStdio(bytes.NewReader(nil), new(bytes.Buffer)))
	// BRnzp #2 at 0x3000, then two words it jumps over, HALT at the target.
	img := imageBytes(0x3000,
		0b0000_111_000000010, // BRnzp #2
		0xDEAD,               // skipped
		0xDEAD,               // skipped
		0xF025,               // HALT, landed on by the branch
	)
	require.NoError(t, m.LoadImage(bytes.NewReader(img)))
	m.ResetPC()
	m.regs.UpdateFlags(0) // COND = Z beforehand, per the scenario

	halted, err := m.Step()
	require.NoError(t, err)
	assert.False(t, halted)
	assert.Equal(t, uint16(0x3003), m.regs.PC())
}

func TestScenarioJSRAndReturn(t *testing.T) {
	m := NewVM(WithStdio(bytes.NewReader(nil), new(bytes.Buffer)))
	img := imageBytes(0x3000,
		0b0100_1_00000000010, // JSR #2
		0xDEAD,               // skipped
	)
	require.NoError(t, m.LoadImage(bytes.NewReader(img)))
	m.ResetPC()

	halted, err := m.Step() // execute JSR at 0x3000
	require.NoError(t, err)
	assert.False(t, halted)
	assert.Equal(t, uint16(0x3001), m.regs.Get(7))
	assert.Equal(t, uint16(0x3003), m.regs.PC())

	// RET (JMP R7) placed at the jump target, per the documented scenario.
	m.mem.Write(0x3003, 0b1100_000_111_000000)
	halted, err = m.Step() // execute RET at 0x3003
	require.NoError(t, err)
	assert.False(t, halted)
	assert.Equal(t, uint16(0x3001), m.regs.PC())
}

func TestScenarioPutsTrap(t *testing.T) {
	var out bytes.Buffer
	m := NewVM(WithStdio(bytes.NewReader(nil), &out))

	img := imageBytes(0x3000,
		0xF022, // TRAP x22 (PUTS)
		0xF025, // HALT
	)
	require.NoError(t, m.LoadImage(bytes.NewReader(img)))
	// String data at 0x3010: 'H', 'i', '!', 0
	require.NoError(t, m.LoadImage(bytes.NewReader(imageBytes(0x3010, 'H', 'i', '!', 0))))
	m.ResetPC()
	m.regs.Set(0, 0x3010)

	require.NoError(t, m.Run())
	assert.Equal(t, "Hi!HALT\n", out.String())
}

func TestNotComplementsSourceRegister(t *testing.T) {
	m := singleInstructionVM(t, 0b1001_001_010_111111) // NOT R1, R2
	m.regs.Set(2, 0x1234)
	require.NoError(t, m.Run())
	assert.Equal(t, uint16(^uint16(0x1234)), m.regs.Get(1))
}

func TestAddRegisterToItselfWithZeroLeavesValueUnchanged(t *testing.T) {
	// ADD R1, R1, #0
	m := singleInstructionVM(t, 0b0001_001_001_1_00000)
	m.regs.Set(1, 42)
	require.NoError(t, m.Run())
	assert.Equal(t, uint16(42), m.regs.Get(1))
	assert.Equal(t, FlagPositive, m.regs.Cond())
}

func TestAndRegisterWithZeroClearsIt(t *testing.T) {
	// AND R1, R1, #0
	m := singleInstructionVM(t, 0b0101_001_001_1_00000)
	m.regs.Set(1, 42)
	require.NoError(t, m.Run())
	assert.Equal(t, uint16(0), m.regs.Get(1))
	assert.Equal(t, FlagZero, m.regs.Cond())
}

func TestLeaLoadsAddressOfNextInstruction(t *testing.T) {
	// LEA R1, #0
	m := singleInstructionVM(t, 0b1110_001_000000000)
	require.NoError(t, m.Run())
	assert.Equal(t, uint16(0x3001), m.regs.Get(1))
}

func TestInstructionLimitExceeded(t *testing.T) {
	m := NewVM(WithStdio(bytes.NewReader(nil), new(bytes.Buffer)), WithMaxInstructions(1000))
	img := imageBytes(0x3000, 0b0000_111_111111111) // BRnzp #-1, an infinite loop
	require.NoError(t, m.LoadImage(bytes.NewReader(img)))
	m.ResetPC()

	err := m.Run()
	assert.ErrorIs(t, err, ErrInstructionLimitExceeded)
	assert.Equal(t, uint64(1000), m.Stats().Instructions)
}

func TestRunWithoutImageFails(t *testing.T) {
	m := NewVM()
	assert.ErrorIs(t, m.Run(), ErrNoImage)
}
