// Package wire encodes batch requests and results as FlatBuffers for callers
// outside the Go process. The table bindings are generated from sicsim.fbs.
package wire

import (
	"errors"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/signalnine/sicmmab/simulation"
	"github.com/signalnine/sicmmab/strategy"
)

// ErrMalformed is returned for buffers that are not a valid message.
var ErrMalformed = errors.New("malformed flatbuffer")

// Request is the decoded form of a BatchRequest.
type Request struct {
	BatchID uint64
	Seed    uint64
	Batch   simulation.BatchConfig
}

// EncodeRequest serializes a batch request.
func EncodeRequest(req Request) []byte {
	builder := flatbuffers.NewBuilder(256)

	means := req.Batch.Means
	BatchRequestStartMeansVector(builder, len(means))
	// Add in reverse order (FlatBuffers convention)
	for i := len(means) - 1; i >= 0; i-- {
		builder.PrependFloat64(means[i])
	}
	meansVec := builder.EndVector(len(means))

	BatchRequestStart(builder)
	BatchRequestAddBatchId(builder, req.BatchID)
	BatchRequestAddMeans(builder, meansVec)
	BatchRequestAddPlayers(builder, uint32(req.Batch.Players))
	BatchRequestAddStrategy(builder, byte(req.Batch.Kind))
	BatchRequestAddHorizon(builder, uint32(req.Batch.Horizon))
	BatchRequestAddRuns(builder, uint32(req.Batch.Runs))
	BatchRequestAddSeed(builder, req.Seed)
	BatchRequestAddWindow(builder, uint32(req.Batch.Strategy.Window))
	BatchRequestAddDelta(builder, req.Batch.Strategy.Delta)
	builder.Finish(BatchRequestEnd(builder))
	return builder.FinishedBytes()
}

// DecodeRequest parses a BatchRequest. Zero delta falls back to the default.
func DecodeRequest(buf []byte) (req Request, err error) {
	defer recoverMalformed(&err)
	if len(buf) < flatbuffers.SizeUOffsetT {
		return Request{}, fmt.Errorf("request of %d bytes: %w", len(buf), ErrMalformed)
	}

	msg := GetRootAsBatchRequest(buf, 0)
	means := make([]float64, msg.MeansLength())
	for i := range means {
		means[i] = msg.Means(i)
	}

	sc := strategy.DefaultConfig()
	sc.Window = int(msg.Window())
	if d := msg.Delta(); d != 0 {
		sc.Delta = d
	}

	req = Request{
		BatchID: msg.BatchId(),
		Seed:    msg.Seed(),
		Batch: simulation.BatchConfig{
			Means:    means,
			Players:  int(msg.Players()),
			Kind:     strategy.Kind(msg.Strategy()),
			Strategy: sc,
			Horizon:  int(msg.Horizon()),
			Runs:     int(msg.Runs()),
		},
	}
	return req, nil
}

// Result is the decoded form of a BatchResult.
type Result struct {
	BatchID uint64
	Stats   simulation.AggregatedStats
	Error   string
}

// EncodeResult serializes batch statistics, or an error message when the
// batch could not run.
func EncodeResult(batchID uint64, stats simulation.AggregatedStats, runErr error) []byte {
	builder := flatbuffers.NewBuilder(1024)
	AppendResult(builder, batchID, stats, runErr)
	return builder.FinishedBytes()
}

// AppendResult builds and finishes a BatchResult on builder.
func AppendResult(builder *flatbuffers.Builder, batchID uint64, stats simulation.AggregatedStats, runErr error) {
	// Strings and vectors must be created before the table
	var errOffset flatbuffers.UOffsetT
	if runErr != nil {
		errOffset = builder.CreateString(runErr.Error())
	}

	summaryOffsets := make([]flatbuffers.UOffsetT, len(stats.Summaries))
	for i, s := range stats.Summaries {
		summaryOffsets[i] = serializeSummary(builder, s)
	}
	BatchResultStartSummariesVector(builder, len(summaryOffsets))
	for i := len(summaryOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(summaryOffsets[i])
	}
	summariesVec := builder.EndVector(len(summaryOffsets))

	BatchResultStartMeanRegretVector(builder, len(stats.MeanRegret))
	for i := len(stats.MeanRegret) - 1; i >= 0; i-- {
		builder.PrependFloat64(stats.MeanRegret[i])
	}
	regretVec := builder.EndVector(len(stats.MeanRegret))

	BatchResultStart(builder)
	BatchResultAddBatchId(builder, batchID)
	BatchResultAddRuns(builder, uint32(stats.Runs))
	BatchResultAddHorizon(builder, uint32(stats.Horizon))
	BatchResultAddMeanRegret(builder, regretVec)
	BatchResultAddFinalRegretMean(builder, stats.FinalRegretMean)
	BatchResultAddFinalRegretStd(builder, stats.FinalRegretStd)
	BatchResultAddCiLow(builder, stats.FinalRegretCI95[0])
	BatchResultAddCiHigh(builder, stats.FinalRegretCI95[1])
	BatchResultAddMeanCollisions(builder, stats.MeanCollisions)
	BatchResultAddErrors(builder, uint32(stats.Errors))
	BatchResultAddSummaries(builder, summariesVec)
	if errOffset > 0 {
		BatchResultAddError(builder, errOffset)
	}
	builder.Finish(BatchResultEnd(builder))
}

func serializeSummary(builder *flatbuffers.Builder, s simulation.RunSummary) flatbuffers.UOffsetT {
	id := builder.CreateString(s.RunID)
	RunSummaryStart(builder)
	RunSummaryAddRunId(builder, id)
	RunSummaryAddSeed(builder, s.Seed)
	RunSummaryAddFinalRegret(builder, s.FinalRegret)
	RunSummaryAddCollisions(builder, uint64(s.Collisions))
	RunSummaryAddDurationNs(builder, s.DurationNs)
	return RunSummaryEnd(builder)
}

// DecodeResult parses a BatchResult.
func DecodeResult(buf []byte) (res Result, err error) {
	defer recoverMalformed(&err)
	if len(buf) < flatbuffers.SizeUOffsetT {
		return Result{}, fmt.Errorf("result of %d bytes: %w", len(buf), ErrMalformed)
	}

	msg := GetRootAsBatchResult(buf, 0)
	stats := simulation.AggregatedStats{
		Runs:            int(msg.Runs()),
		Horizon:         int(msg.Horizon()),
		MeanRegret:      make([]float64, msg.MeanRegretLength()),
		FinalRegretMean: msg.FinalRegretMean(),
		FinalRegretStd:  msg.FinalRegretStd(),
		FinalRegretCI95: [2]float64{msg.CiLow(), msg.CiHigh()},
		MeanCollisions:  msg.MeanCollisions(),
		Errors:          int(msg.Errors()),
		Summaries:       make([]simulation.RunSummary, msg.SummariesLength()),
	}
	for i := range stats.MeanRegret {
		stats.MeanRegret[i] = msg.MeanRegret(i)
	}
	sum := new(RunSummary)
	for i := range stats.Summaries {
		if !msg.Summaries(sum, i) {
			continue
		}
		stats.Summaries[i] = simulation.RunSummary{
			RunID:       string(sum.RunId()),
			Seed:        sum.Seed(),
			FinalRegret: sum.FinalRegret(),
			Collisions:  int(sum.Collisions()),
			DurationNs:  sum.DurationNs(),
		}
	}

	return Result{
		BatchID: msg.BatchId(),
		Stats:   stats,
		Error:   string(msg.Error()),
	}, nil
}

// recoverMalformed turns an out-of-bounds read on a corrupt buffer into
// ErrMalformed.
func recoverMalformed(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%v: %w", r, ErrMalformed)
	}
}
