package main

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"
import (
	"unsafe"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/signalnine/sicmmab/simulation"
	"github.com/signalnine/sicmmab/wire"
)

//export SimulateBatch
func SimulateBatch(requestPtr unsafe.Pointer, requestLen C.int, responseLen *C.int) unsafe.Pointer {
	// Parse Flatbuffers request
	requestBytes := C.GoBytes(requestPtr, requestLen)

	// Create response builder
	builder := flatbuffers.NewBuilder(1024)
	handleRequest(builder, requestBytes)

	// Get response bytes
	responseBytes := builder.FinishedBytes()
	*responseLen = C.int(len(responseBytes))

	// Allocate C memory for response (caller must free)
	cBytes := C.malloc(C.size_t(len(responseBytes)))
	if cBytes == nil {
		*responseLen = 0
		return nil
	}

	// Copy Go bytes to C memory
	C.memcpy(cBytes, unsafe.Pointer(&responseBytes[0]), C.size_t(len(responseBytes)))

	return cBytes
}

//export FreeResponse
func FreeResponse(ptr unsafe.Pointer) {
	C.free(ptr)
}

// handleRequest decodes one batch request, runs it and writes the finished
// result to builder. Failures travel back in the result's error field.
// Runs execute sequentially; the host parallelizes across processes.
func handleRequest(builder *flatbuffers.Builder, requestBytes []byte) {
	req, err := wire.DecodeRequest(requestBytes)
	if err != nil {
		wire.AppendResult(builder, 0, simulation.AggregatedStats{}, err)
		return
	}

	stats, err := simulation.RunBatch(req.Batch, req.Seed)
	wire.AppendResult(builder, req.BatchID, stats, err)
}

func main() {} // Required for CGo
