package validate

import (
	"errors"
	"fmt"
)

var ErrRunaway = errors.New("subroutine did not return")

const maxSteps = 100000

const (
	FlagC byte = 1 << 0
	FlagZ byte = 1 << 1
	FlagI byte = 1 << 2
	FlagD byte = 1 << 3
	FlagB byte = 1 << 4
	FlagU byte = 1 << 5
	FlagV byte = 1 << 6
	FlagN byte = 1 << 7
)

// CPU6502 interprets the documented opcodes a table lookup routine needs.
// Decimal mode is not modelled.
type CPU6502 struct {
	A, X, Y byte
	SP      byte
	PC      uint16
	P       byte
	Memory  [65536]byte
	Cycles  uint64
}

func NewCPU() *CPU6502 {
	return &CPU6502{SP: 0xFF, P: FlagU | FlagI}
}

func (c *CPU6502) Load(addr uint16, data []byte) {
	copy(c.Memory[addr:], data)
}

func (c *CPU6502) read(addr uint16) byte       { return c.Memory[addr] }
func (c *CPU6502) write(addr uint16, val byte) { c.Memory[addr] = val }

func (c *CPU6502) push(val byte) {
	c.write(0x0100|uint16(c.SP), val)
	c.SP--
}

func (c *CPU6502) pull() byte {
	c.SP++
	return c.read(0x0100 | uint16(c.SP))
}

func (c *CPU6502) push16(val uint16) {
	c.push(byte(val >> 8))
	c.push(byte(val))
}

func (c *CPU6502) pull16() uint16 {
	lo := uint16(c.pull())
	return lo | uint16(c.pull())<<8
}

func (c *CPU6502) setFlag(f byte, v bool) {
	if v {
		c.P |= f
	} else {
		c.P &^= f
	}
}

func (c *CPU6502) setZN(val byte) {
	c.setFlag(FlagZ, val == 0)
	c.setFlag(FlagN, val&0x80 != 0)
}

func (c *CPU6502) fetch() byte {
	v := c.Memory[c.PC]
	c.PC++
	return v
}

func (c *CPU6502) addrImm() uint16 {
	addr := c.PC
	c.PC++
	return addr
}

func (c *CPU6502) addrZP() uint16 { return uint16(c.fetch()) }

func (c *CPU6502) addrAbs() uint16 {
	lo := uint16(c.fetch())
	return uint16(c.fetch())<<8 | lo
}

func (c *CPU6502) addrAbsX() uint16 { return c.addrAbs() + uint16(c.X) }
func (c *CPU6502) addrAbsY() uint16 { return c.addrAbs() + uint16(c.Y) }

func (c *CPU6502) adc(val byte) {
	a, v := uint16(c.A), uint16(val)
	carry := uint16(c.P & FlagC)
	sum := a + v + carry
	c.setFlag(FlagC, sum > 0xFF)
	c.setFlag(FlagV, (^(a^v))&(a^sum)&0x80 != 0)
	c.A = byte(sum)
	c.setZN(c.A)
}

func (c *CPU6502) cmp(reg, val byte) {
	c.setFlag(FlagC, reg >= val)
	c.setZN(reg - val)
}

func (c *CPU6502) branch(cond bool) {
	offset := int8(c.fetch())
	if cond {
		c.PC = uint16(int32(c.PC) + int32(offset))
	}
}

func (c *CPU6502) lsr(val byte) byte {
	c.setFlag(FlagC, val&0x01 != 0)
	val >>= 1
	c.setZN(val)
	return val
}

func (c *CPU6502) asl(val byte) byte {
	c.setFlag(FlagC, val&0x80 != 0)
	val <<= 1
	c.setZN(val)
	return val
}

func (c *CPU6502) ror(val byte) byte {
	carry := c.P & FlagC
	c.setFlag(FlagC, val&0x01 != 0)
	val = val>>1 | carry<<7
	c.setZN(val)
	return val
}

func (c *CPU6502) rol(val byte) byte {
	carry := c.P & FlagC
	c.setFlag(FlagC, val&0x80 != 0)
	val = val<<1 | carry
	c.setZN(val)
	return val
}

func (c *CPU6502) modify(addr uint16, op func(byte) byte) {
	c.write(addr, op(c.read(addr)))
}

// Step executes one instruction. It reports whether the instruction was RTS.
func (c *CPU6502) Step() (bool, error) {
	opcode := c.fetch()
	c.Cycles++
	switch opcode {
	case 0xA9:
		c.A = c.read(c.addrImm())
		c.setZN(c.A)
	case 0xA5:
		c.A = c.read(c.addrZP())
		c.setZN(c.A)
	case 0xAD:
		c.A = c.read(c.addrAbs())
		c.setZN(c.A)
	case 0xBD:
		c.A = c.read(c.addrAbsX())
		c.setZN(c.A)
	case 0xB9:
		c.A = c.read(c.addrAbsY())
		c.setZN(c.A)
	case 0xA2:
		c.X = c.read(c.addrImm())
		c.setZN(c.X)
	case 0xA6:
		c.X = c.read(c.addrZP())
		c.setZN(c.X)
	case 0xA0:
		c.Y = c.read(c.addrImm())
		c.setZN(c.Y)
	case 0xA4:
		c.Y = c.read(c.addrZP())
		c.setZN(c.Y)
	case 0x85:
		c.write(c.addrZP(), c.A)
	case 0x8D:
		c.write(c.addrAbs(), c.A)
	case 0x9D:
		c.write(c.addrAbsX(), c.A)
	case 0x86:
		c.write(c.addrZP(), c.X)
	case 0x84:
		c.write(c.addrZP(), c.Y)
	case 0xAA:
		c.X = c.A
		c.setZN(c.X)
	case 0xA8:
		c.Y = c.A
		c.setZN(c.Y)
	case 0x8A:
		c.A = c.X
		c.setZN(c.A)
	case 0x98:
		c.A = c.Y
		c.setZN(c.A)
	case 0x48:
		c.push(c.A)
	case 0x68:
		c.A = c.pull()
		c.setZN(c.A)
	case 0x29:
		c.A &= c.read(c.addrImm())
		c.setZN(c.A)
	case 0x25:
		c.A &= c.read(c.addrZP())
		c.setZN(c.A)
	case 0x09:
		c.A |= c.read(c.addrImm())
		c.setZN(c.A)
	case 0x05:
		c.A |= c.read(c.addrZP())
		c.setZN(c.A)
	case 0x49:
		c.A ^= c.read(c.addrImm())
		c.setZN(c.A)
	case 0x69:
		c.adc(c.read(c.addrImm()))
	case 0x65:
		c.adc(c.read(c.addrZP()))
	case 0xE9:
		c.adc(^c.read(c.addrImm()))
	case 0xE5:
		c.adc(^c.read(c.addrZP()))
	case 0xC9:
		c.cmp(c.A, c.read(c.addrImm()))
	case 0xC5:
		c.cmp(c.A, c.read(c.addrZP()))
	case 0xE0:
		c.cmp(c.X, c.read(c.addrImm()))
	case 0xC0:
		c.cmp(c.Y, c.read(c.addrImm()))
	case 0xE8:
		c.X++
		c.setZN(c.X)
	case 0xC8:
		c.Y++
		c.setZN(c.Y)
	case 0xCA:
		c.X--
		c.setZN(c.X)
	case 0x88:
		c.Y--
		c.setZN(c.Y)
	case 0x0A:
		c.A = c.asl(c.A)
	case 0x06:
		c.modify(c.addrZP(), c.asl)
	case 0x4A:
		c.A = c.lsr(c.A)
	case 0x46:
		c.modify(c.addrZP(), c.lsr)
	case 0x2A:
		c.A = c.rol(c.A)
	case 0x26:
		c.modify(c.addrZP(), c.rol)
	case 0x6A:
		c.A = c.ror(c.A)
	case 0x66:
		c.modify(c.addrZP(), c.ror)
	case 0x4C:
		c.PC = c.addrAbs()
	case 0x20:
		addr := c.addrAbs()
		c.push16(c.PC - 1)
		c.PC = addr
	case 0x60:
		c.PC = c.pull16() + 1
		return true, nil
	case 0x10:
		c.branch(c.P&FlagN == 0)
	case 0x30:
		c.branch(c.P&FlagN != 0)
	case 0x50:
		c.branch(c.P&FlagV == 0)
	case 0x70:
		c.branch(c.P&FlagV != 0)
	case 0x90:
		c.branch(c.P&FlagC == 0)
	case 0xB0:
		c.branch(c.P&FlagC != 0)
	case 0xD0:
		c.branch(c.P&FlagZ == 0)
	case 0xF0:
		c.branch(c.P&FlagZ != 0)
	case 0x18:
		c.P &^= FlagC
	case 0x38:
		c.P |= FlagC
	case 0xD8:
		c.P &^= FlagD
	case 0xEA:
	default:
		return false, fmt.Errorf("unsupported opcode $%02X at $%04X", opcode, c.PC-1)
	}
	return false, nil
}

// Call runs the subroutine at addr until it returns to the caller.
func (c *CPU6502) Call(addr uint16) error {
	c.push16(0xFFFF)
	c.PC = addr
	for count := 0; count < maxSteps; count++ {
		rts, err := c.Step()
		if err != nil {
			return err
		}
		if rts && c.PC == 0x0000 {
			return nil
		}
	}
	return fmt.Errorf("%w: $%04X after %d steps", ErrRunaway, addr, maxSteps)
}
