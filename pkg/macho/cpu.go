package macho

import "github.com/blacktop/go-macho/types"

// UnknownCPUName is printed for every cpu type missing from cpuNames.
const UnknownCPUName = "unknown"

// cpuNames are the architecture names printed per image. go-macho's own
// CPU.String spells them differently (AARCH64, Amd64).
var cpuNames = []intName{
	{uint32(types.CPU386), "i386"},
	{uint32(types.CPUAmd64), "x86_64"},
	{uint32(types.CPUArm), "arm"},
	{uint32(types.CPUArm64), "arm64"},
}

// CPUName returns the architecture name printed for the cpu type.
func CPUName(c types.CPU) string {
	for _, n := range cpuNames {
		if n.i == uint32(c) {
			return n.s
		}
	}
	return UnknownCPUName
}

// LookupCPU returns the cpu type with the given architecture name.
func LookupCPU(name string) (types.CPU, bool) {
	for _, n := range cpuNames {
		if n.s == name {
			return types.CPU(n.i), true
		}
	}
	return 0, false
}

// CPUNames lists every architecture name known to CPUName.
func CPUNames() []string {
	names := make([]string, 0, len(cpuNames))
	for _, n := range cpuNames {
		names = append(names, n.s)
	}
	return names
}
