package toolchain

import "fmt"

// Profile describes how exercises of one language are compiled and judged.
type Profile struct {
	// Name identifies the profile in config files ("rust").
	Name string

	// Compiler is the executable invoked for every build.
	Compiler string

	// TestFlag is passed before the source file for test builds.
	TestFlag string

	// VersionFlag prints the compiler version (used by doctor).
	VersionFlag string

	// Extension is the exercise file extension, including the dot.
	Extension string

	// Marker is the literal token that flags an unsolved exercise.
	Marker string

	// MinVersion is the oldest compiler release known to work ("" = any).
	MinVersion string
}

// Rust returns the built-in rustc profile.
func Rust() Profile {
	return Profile{
		Name:        "rust",
		Compiler:    "rustc",
		TestFlag:    "--test",
		VersionFlag: "--version",
		Extension:   ".rs",
		Marker:      "// I AM NOT DONE",
		MinVersion:  "1.70.0",
	}
}

// Lookup returns the built-in profile with the given name.
func Lookup(name string) (Profile, error) {
	switch name {
	case "", "rust":
		return Rust(), nil
	default:
		return Profile{}, fmt.Errorf("unknown toolchain profile %q", name)
	}
}
