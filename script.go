package main

import (
	"errors"
	"fmt"
	"strings"

	"yasaa/app/saa"

	lua "github.com/yuin/gopher-lua"
)

const defaultScriptRate = 50

var errNoBus = errors.New("register write outside a frame")

// Script is a Sequencer driven by Lua. The chunk runs on the first step
// with the saa table available:
//
//	saa.write(reg, data)  select reg and write data
//	saa.address(reg)      select reg
//	saa.data(v)           write to the selected register
//	saa.clear()           silence the chip
//	saa.rate(hz)          frames per second, 50 unless set
//
// A global frame(n) function is then called once per frame with the
// frame number; returning false ends the sequence. Without frame the
// sequence ends after the chunk.
type Script struct {
	L     *lua.LState
	chunk *lua.LFunction

	bus        saa.Bus
	sampleRate uint32
	rate       int
	frame      int
	started    bool
	err        error
}

// LoadScript compiles the Lua file name.
func LoadScript(name string, sampleRate uint32) (*Script, error) {
	s := newScript(sampleRate)
	fn, err := s.L.LoadFile(name)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.chunk = fn
	return s, nil
}

// NewScript compiles Lua source held in memory.
func NewScript(src, name string, sampleRate uint32) (*Script, error) {
	s := newScript(sampleRate)
	fn, err := s.L.Load(strings.NewReader(src), name)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.chunk = fn
	return s, nil
}

func newScript(sampleRate uint32) *Script {
	s := &Script{
		L:          lua.NewState(),
		sampleRate: sampleRate,
		rate:       defaultScriptRate,
	}
	mod := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"write":   s.luaWrite,
		"address": s.luaAddress,
		"data":    s.luaData,
		"clear":   s.luaClear,
		"rate":    s.luaRate,
	})
	s.L.SetGlobal("saa", mod)
	return s
}

func (s *Script) Close() {
	s.L.Close()
}

// Err is the Lua error that ended the sequence, if any.
func (s *Script) Err() error {
	return s.err
}

func (s *Script) Step(bus saa.Bus, pos uint64) (uint64, bool) {
	s.bus = bus
	defer func() { s.bus = nil }()

	if !s.started {
		s.started = true
		s.L.Push(s.chunk)
		if err := s.L.PCall(0, lua.MultRet, nil); err != nil {
			return s.fail(err)
		}
	}

	frame := s.L.GetGlobal("frame")
	if frame.Type() != lua.LTFunction {
		return 0, true
	}

	err := s.L.CallByParam(lua.P{
		Fn:      frame,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(s.frame))
	if err != nil {
		return s.fail(err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)
	s.frame++

	if ret == lua.LFalse {
		return 0, true
	}
	return s.samplesPerFrame(), false
}

func (s *Script) fail(err error) (uint64, bool) {
	s.err = fmt.Errorf("lua: %w", err)
	return 0, true
}

func (s *Script) samplesPerFrame() uint64 {
	n := uint64(s.sampleRate) / uint64(s.rate)
	if n == 0 {
		n = 1
	}
	return n
}

func (s *Script) checkBus(L *lua.LState) saa.Bus {
	if s.bus == nil {
		L.RaiseError("%v", errNoBus)
	}
	return s.bus
}

func checkByte(L *lua.LState, n int) uint8 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xff {
		L.ArgError(n, "value out of byte range")
	}
	return uint8(v)
}

func (s *Script) luaWrite(L *lua.LState) int {
	reg, data := checkByte(L, 1), checkByte(L, 2)
	s.checkBus(L).WriteAddressData(reg, data)
	return 0
}

func (s *Script) luaAddress(L *lua.LState) int {
	reg := checkByte(L, 1)
	s.checkBus(L).WriteAddress(reg)
	return 0
}

func (s *Script) luaData(L *lua.LState) int {
	data := checkByte(L, 1)
	s.checkBus(L).WriteData(data)
	return 0
}

func (s *Script) luaClear(L *lua.LState) int {
	saa.Clear(s.checkBus(L))
	return 0
}

func (s *Script) luaRate(L *lua.LState) int {
	hz := L.CheckInt(1)
	if hz <= 0 || hz > int(s.sampleRate) {
		L.ArgError(1, "frame rate out of range")
	}
	s.rate = hz
	return 0
}
