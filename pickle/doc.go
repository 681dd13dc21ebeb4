// Package pickle disassembles Python pickle virtual-machine streams without
// executing them.
//
// Reader yields the opcode sequence of a pickle stream lazily, one Op at a
// time. Extract consumes that sequence to recover the set of (module, name)
// symbol references the stream would resolve into live callables if it were
// ever unpickled by a real Python interpreter — this is the static-analysis
// replacement for actually running pickle.load.
package pickle
