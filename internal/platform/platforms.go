// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package platform defines a normalized representation of operating system
// and architecture combinations, and the predefined preprocessor macros a
// compiler targeting each combination would define. It exists so that `ls
// --assume-platform os/arch` can seed a condition.Assignment the same way a
// real toolchain's builtin macros would, without requiring the user to
// spell out every `defined(__linux__)`-style predicate by hand.
package platform

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/branchcc/branchcc/internal/condition"
)

// Platform is an OS/Arch combination identifying a compilation target.
type Platform struct {
	OS   OS
	Arch Arch
}

func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// Compare orders first by OS, then by Arch.
func Compare(a, b Platform) int {
	if d := cmp.Compare(a.OS, b.OS); d != 0 {
		return d
	}
	return cmp.Compare(a.Arch, b.Arch)
}

// Create validates and normalizes an OS/Arch pair, resolving aliases
// (e.g. "macos" -> osx, "amd64" -> x86_64).
func Create(os OS, arch Arch) (Platform, error) {
	p := Platform{OS: dealias(os, osAlias), Arch: dealias(arch, archAlias)}
	if !slices.Contains(allKnownOS, p.OS) {
		return p, fmt.Errorf("unknown OS %v, expected one of %v or an alias %v", p.OS, allKnownOS, osAlias)
	}
	if !slices.Contains(allKnownArch, p.Arch) {
		return p, fmt.Errorf("unknown architecture %v, expected one of %v or an alias %v", p.Arch, allKnownArch, archAlias)
	}
	return p, nil
}

// OS is an operating system identifier, matching the values used by
// `@platforms//os`.
type OS string

const (
	android    OS = "android"
	chromiumos OS = "chromiumos"
	emscripten OS = "emscripten"
	freebsd    OS = "freebsd"
	fuchsia    OS = "fuchsia"
	haiku      OS = "haiku"
	ios        OS = "ios"
	linux      OS = "linux"
	netbsd     OS = "netbsd"
	nixos      OS = "nixos"
	none       OS = "none" // bare-metal
	openbsd    OS = "openbsd"
	osx        OS = "osx"
	qnx        OS = "qnx"
	tvos       OS = "tvos"
	uefi       OS = "uefi"
	visionos   OS = "visionos"
	vxworks    OS = "vxworks"
	wasi       OS = "wasi"
	watchos    OS = "watchos"
	windows    OS = "windows"
)

var osAlias = map[string]OS{"macos": osx}

var allKnownOS = []OS{
	android, chromiumos, emscripten, freebsd, fuchsia, haiku, ios,
	linux, netbsd, nixos, none, openbsd, osx, qnx, tvos,
	uefi, visionos, vxworks, wasi, watchos, windows,
}

// Arch is a CPU architecture identifier, matching the values used by
// `@platforms//cpu`.
type Arch string

const (
	aarch32   Arch = "aarch32"
	aarch64   Arch = "aarch64"
	arm64_32  Arch = "arm64_32"
	arm64e    Arch = "arm64e"
	armv6m    Arch = "armv6-m"
	armv7     Arch = "armv7"
	armv7em   Arch = "armv7e-m"
	armv8m    Arch = "armv8-m"
	i386      Arch = "i386"
	mips64    Arch = "mips64"
	ppc32     Arch = "ppc32"
	ppc64le   Arch = "ppc64le"
	riscv64   Arch = "riscv64"
	s390x     Arch = "s390x"
	wasm32    Arch = "wasm32"
	wasm64    Arch = "wasm64"
	x86_32    Arch = "x86_32"
	x86_64    Arch = "x86_64"
	armv7k    Arch = "armv7k"
)

var archAlias = map[string]Arch{
	"arm":   aarch32,
	"arm64": aarch64,
	"amd64": x86_64,
}

var allKnownArch = []Arch{
	aarch32, aarch64, arm64_32, arm64e, armv6m, armv7, armv7em, armv7k,
	armv8m, i386, mips64, ppc32, ppc64le, riscv64, s390x, wasm32, wasm64,
	x86_32, x86_64,
}

// platformMacros maps a platform to the list of macro names a compiler
// targeting it predefines, populated in init().
var platformMacros = map[Platform][]string{}

func init() {
	windowsArchs := []Arch{i386, x86_32, x86_64, aarch32, aarch64}
	addMacro("_WIN32", osArchPlatforms(windows, windowsArchs))
	addMacro("_WIN64", osArchPlatforms(windows, []Arch{x86_64, aarch64}))
	addMacro("__MINGW32__", osArchPlatform(windows, i386))
	addMacro("__MINGW64__", osArchPlatform(windows, x86_64))

	linuxArchs := allKnownArch
	addMacros([]string{"linux", "__linux__", "__linux", "__gnu_linux__"}, osArchPlatforms(linux, linuxArchs))

	androidArchs := []Arch{aarch32, aarch64, x86_32, x86_64, riscv64}
	addMacro("__ANDROID__", osArchPlatforms(android, androidArchs))

	chromeArchs := []Arch{x86_64, aarch64, riscv64}
	addMacro("__CHROMEOS__", osArchPlatforms(chromiumos, chromeArchs))

	// Apple does not define unix even though it's unix-like.
	unixOS := []OS{linux, android, chromiumos, nixos, freebsd, netbsd, openbsd, haiku, qnx}
	addMacros([]string{"unix", "__unix", "__unix__"}, platformsMatrix(unixOS, allKnownArch))

	wasmArchs := []Arch{wasm32, wasm64}
	addMacro("__EMSCRIPTEN__", platformsMatrix([]OS{emscripten}, wasmArchs))
	addMacro("__wasi__", platformsMatrix([]OS{wasi}, wasmArchs))
	addMacro("__wasm__", platformsMatrix([]OS{emscripten, wasi}, wasmArchs))

	bsdArchs := []Arch{i386, x86_64, aarch64, riscv64, ppc64le}
	addMacro("__FreeBSD__", platformsMatrix([]OS{freebsd}, bsdArchs))
	addMacro("__NetBSD__", platformsMatrix([]OS{netbsd}, bsdArchs))
	addMacro("__OpenBSD__", platformsMatrix([]OS{openbsd}, bsdArchs))

	qnxArchs := []Arch{aarch32, aarch64, ppc32, ppc64le, x86_32, x86_64}
	addMacro("__QNX__", osArchPlatforms(qnx, qnxArchs))
	addMacro("__QNXNTO__", osArchPlatforms(qnx, qnxArchs))

	haikuArchs := []Arch{x86_32, x86_64}
	addMacro("__HAIKU__", osArchPlatforms(haiku, haikuArchs))

	fuchsiaArchs := []Arch{aarch64, x86_64}
	addMacro("__Fuchsia__", osArchPlatforms(fuchsia, fuchsiaArchs))

	vxworksArchs := []Arch{aarch32, aarch64, ppc32, ppc64le, x86_32, x86_64}
	addMacro("__VXWORKS__", osArchPlatforms(vxworks, vxworksArchs))

	uefiArchs := []Arch{aarch32, aarch64, x86_32, x86_64, riscv64}
	addMacro("__UEFI__", osArchPlatforms(uefi, uefiArchs))

	macArchs := []Arch{x86_64, aarch64, arm64e}
	iosArchs := []Arch{aarch64, arm64e}
	tvosArchs := []Arch{aarch64}
	watchArchs := []Arch{armv7k, arm64_32}
	visionArchs := []Arch{aarch64}
	applePlatforms := slices.Concat(
		osArchPlatforms(osx, macArchs),
		osArchPlatforms(ios, iosArchs),
		osArchPlatforms(tvos, tvosArchs),
		osArchPlatforms(watchos, watchArchs),
		osArchPlatforms(visionos, visionArchs),
	)
	addMacro("__APPLE__", applePlatforms)
	addMacro("__MACH__", applePlatforms)
	addMacro("TARGET_OS_OSX", osArchPlatforms(osx, macArchs))
	addMacro("TARGET_OS_IPHONE", osArchPlatforms(ios, iosArchs))

	addMacros([]string{"__x86_64__", "__x86_64", "__amd64", "__amd64__"}, archOsPlatforms(x86_64, allKnownOS))
	addMacros([]string{"__i386__", "__i386"}, archOsPlatforms(i386, allKnownOS))
	addMacros([]string{"__arm__", "__arm", "__thumb__", "__thumb"}, archOsPlatforms(aarch32, allKnownOS))
	addMacros([]string{"__aarch64__", "__arm64", "__arm64__"}, archOsPlatforms(aarch64, allKnownOS))

	addMacro("__ARM_ARCH_6M__", osArchPlatform(none, armv6m))
	addMacro("__ARM_ARCH_7__", osArchPlatform(none, armv7))
	addMacro("__ARM_ARCH_7M__", osArchPlatform(none, armv7em))
	addMacro("__ARM_ARCH_8M_BASE__", osArchPlatform(none, armv8m))

	powerPCOS := []OS{linux, freebsd, netbsd, openbsd, qnx, vxworks}
	addMacro("__powerpc__", archOsPlatforms(ppc32, powerPCOS))
	addMacro("__powerpc64__", archOsPlatforms(ppc64le, powerPCOS))

	mipsOS := []OS{linux, netbsd, openbsd, qnx, vxworks}
	addMacro("__mips64", archOsPlatforms(mips64, mipsOS))

	addMacro("__s390x__", osArchPlatform(linux, s390x))

	riscvOS := []OS{linux, freebsd, netbsd, openbsd, qnx, vxworks, android, chromiumos, fuchsia, nixos}
	addMacro("__riscv", archOsPlatforms(riscv64, riscvOS))
}

func addMacro(name string, platforms []Platform) {
	for _, p := range platforms {
		platformMacros[p] = append(platformMacros[p], name)
	}
}

func addMacros(names []string, platforms []Platform) {
	for _, name := range names {
		addMacro(name, platforms)
	}
}

func osArchPlatform(os OS, arch Arch) []Platform { return []Platform{{os, arch}} }

func osArchPlatforms(os OS, archs []Arch) []Platform {
	return append(platformsMatrix([]OS{os}, archs), Platform{OS: os})
}

func archOsPlatforms(arch Arch, oss []OS) []Platform {
	return append(platformsMatrix(oss, []Arch{arch}), Platform{Arch: arch})
}

func platformsMatrix(oss []OS, archs []Arch) []Platform {
	result := make([]Platform, 0, len(oss)*len(archs))
	for _, os := range oss {
		for _, arch := range archs {
			result = append(result, Platform{OS: os, Arch: arch})
		}
	}
	return result
}

func dealias[T ~string](value T, aliases map[string]T) T {
	if d, ok := aliases[string(value)]; ok {
		return d
	}
	return value
}

// Macros returns the macro names predefined by p, in no particular order.
func Macros(p Platform) []string {
	return platformMacros[p]
}

// Assume returns a condition.Assignment, built against u, asserting
// defined(name) = true for every macro p predefines. Macros it does not
// predefine are left unassigned (free), not assumed false: a translation
// unit may still #define them itself.
func Assume(u *condition.Universe, p Platform) *condition.Assignment {
	as := condition.NewAssignment()
	for _, name := range platformMacros[p] {
		as.Assume(u.Defined(name), true)
	}
	return as
}
