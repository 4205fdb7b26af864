// Package efa speaks the PlaneWave AUX serial protocol used by the EFA
// focus controller. The daemon talks to the hardware exclusively through
// the Channel type in this package.
package efa

import "fmt"

// SOM is the start-of-message byte that frames every AUX packet.
const SOM = 0x3B

// Device addresses on the AUX bus.
const (
	AddrPC      = 0x20 // this computer
	AddrFocTemp = 0x12 // focus motor and temperature sensors
	AddrRotFan  = 0x13 // rotator motor and fan control
)

// Command bytes recognized by the EFA.
const (
	CmdMtrGetPos    = 0x01
	CmdMtrOffsetCnt = 0x04
	CmdMtrPTrack    = 0x06
	CmdMtrGotoOver  = 0x13
	CmdMtrGotoPos2  = 0x17
	CmdTempGet      = 0x26
	CmdFansSet      = 0x27
	CmdFansGet      = 0x28
	CmdGetVersion   = 0xFE
)

// Temperature sensor addresses. Not every telescope carries every sensor.
const (
	SensorPrimary = 0
	SensorAmbient = 1
)

// Packet is one AUX bus frame:
//
//	SOM LEN SRC RCV CMD PL1 ... CHK
//
// LEN counts SRC, RCV, CMD and the payload bytes. CHK is the low byte of
// the two's complement of the sum of every field after SOM.
type Packet struct {
	Source   byte
	Receiver byte
	Command  byte
	Data     []byte
}

// NewPacket builds a packet from this computer to the given device.
func NewPacket(receiver, command byte, data ...byte) Packet {
	return Packet{
		Source:   AddrPC,
		Receiver: receiver,
		Command:  command,
		Data:     data,
	}
}

// Encode serializes the packet including framing and checksum.
func (p Packet) Encode() []byte {
	buf := make([]byte, 0, 6+len(p.Data))
	buf = append(buf, SOM, byte(3+len(p.Data)), p.Source, p.Receiver, p.Command)
	buf = append(buf, p.Data...)
	buf = append(buf, checksum(buf[1:]))
	return buf
}

// checksum returns the low byte of the two's complement of the byte sum.
func checksum(fields []byte) byte {
	var sum int
	for _, b := range fields {
		sum += int(b)
	}
	return byte(-sum & 0xFF)
}

// Value interprets the payload as an MSB-first integer.
func (p Packet) Value() int {
	var v int
	for _, b := range p.Data {
		v = v<<8 | int(b)
	}
	return v
}

// SignedValue interprets a 3-byte payload as a signed 24-bit position.
func (p Packet) SignedValue() int {
	v := p.Value()
	if len(p.Data) == 3 && v&0x800000 != 0 {
		v -= 0x1000000
	}
	return v
}

// EncodePosition packs a step position into the 3 MSB-first bytes the EFA
// expects for goto and encoder commands.
func EncodePosition(steps int) []byte {
	return []byte{
		byte(steps >> 16),
		byte(steps >> 8),
		byte(steps),
	}
}

func (p Packet) String() string {
	return fmt.Sprintf("addr %02X -> %02X: cmd=%02X data=% X", p.Source, p.Receiver, p.Command, p.Data)
}
