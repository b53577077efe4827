// Package serialization provides the native .optc format for saving and
// loading optimizer state.
//
// The .optc format is a simple checksummed binary format:
//
//	Format Structure:
//	  [4 bytes:  Magic "OPTC"]
//	  [4 bytes:  Version (uint32 LE)]
//	  [4 bytes:  Flags (uint32 LE)]
//	  [4 bytes:  Reserved]
//	  [8 bytes:  Header Size (uint64 LE)]
//	  [8 bytes:  Data Size (uint64 LE)]
//	  [32 bytes: SHA-256 checksum of the data section]
//	  [Header: JSON metadata]
//	  [Tensor data: raw bytes, 64-byte aligned]
//
// The format supports:
//   - Multiple data types (float32, float64, int32, int64, uint8, bool)
//   - Arbitrary tensor shapes
//   - An optimizer label and custom metadata in the header
//   - Deterministic output: tensors are written in sorted name order
//   - Corruption detection via the data section checksum
//
// Example usage:
//
//	// Save optimizer state
//	state := opt.StateDict()
//	if err := serialization.WriteStateFile("run.optc", state, "lbfgs", nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load optimizer state
//	state, kind, err := serialization.ReadStateFile("run.optc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opt.LoadStateDict(state)
package serialization
