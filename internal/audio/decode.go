package audio

import (
	"errors"
	"fmt"
	"unsafe"

	ffmpeg "github.com/csnewman/ffmpeg-go"
)

// Stream is a fully materialized mono sample stream handed to the
// segmentation core. Samples are normalized amplitudes in [-1, 1].
// Immutable by convention once returned.
type Stream struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the stream length in seconds.
func (s *Stream) Duration() float64 {
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// DecodeSamples decodes an entire media file into a mono float64 stream at
// the target sample rate. All resampling and downmixing happens inside an
// ffmpeg filter graph, so any container and channel layout the linked
// ffmpeg supports is accepted.
//
// progress, if non-nil, is called periodically with a value in [0, 1]
// derived from the source duration; it is best-effort and may jump to 1.0
// for sources without a duration header.
func DecodeSamples(filename string, targetRate int, progress func(float64)) (*Stream, error) {
	reader, metadata, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	graph, srcCtx, sinkCtx, err := newResampleGraph(reader.DecoderContext(), targetRate)
	if err != nil {
		return nil, err
	}
	defer ffmpeg.AVFilterGraphFree(&graph)

	filtered := ffmpeg.AVFrameAlloc()
	defer ffmpeg.AVFrameFree(&filtered)

	// Pre-size from the container duration where available.
	var samples []float64
	if metadata.Duration > 0 {
		samples = make([]float64, 0, int(metadata.Duration*float64(targetRate))+targetRate)
	}
	totalExpected := metadata.Duration * float64(targetRate)

	drainSink := func() error {
		for {
			if _, err := ffmpeg.AVBuffersinkGetFrame(sinkCtx, filtered); err != nil {
				if errors.Is(err, ffmpeg.EAgain) || errors.Is(err, ffmpeg.AVErrorEOF) {
					return nil
				}
				return fmt.Errorf("failed to get filtered frame: %w", err)
			}
			samples = append(samples, frameSamples(filtered)...)
			ffmpeg.AVFrameUnref(filtered)
		}
	}

	frameCount := 0
	for {
		frame, err := reader.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("failed to read frame: %w", err)
		}
		if frame == nil {
			break
		}

		if _, err := ffmpeg.AVBuffersrcAddFrameFlags(srcCtx, frame, 0); err != nil {
			return nil, fmt.Errorf("failed to add frame to filter: %w", err)
		}
		if err := drainSink(); err != nil {
			return nil, err
		}

		frameCount++
		if progress != nil && frameCount%100 == 0 && totalExpected > 0 {
			p := float64(len(samples)) / totalExpected
			if p > 1.0 {
				p = 1.0
			}
			progress(p)
		}
	}

	// Flush the filter graph
	if _, err := ffmpeg.AVBuffersrcAddFrameFlags(srcCtx, nil, 0); err != nil {
		return nil, fmt.Errorf("failed to flush filter: %w", err)
	}
	if err := drainSink(); err != nil {
		return nil, err
	}

	if progress != nil {
		progress(1.0)
	}

	return &Stream{Samples: samples, SampleRate: targetRate}, nil
}

// frameSamples copies the packed float64 mono samples out of a filtered
// frame. The graph's aformat filter guarantees dbl/mono output.
func frameSamples(frame *ffmpeg.AVFrame) []float64 {
	n := int(frame.NbSamples())
	if n == 0 {
		return nil
	}
	dataPtr := frame.Data().Get(0)
	if dataPtr == nil {
		return nil
	}
	return unsafe.Slice((*float64)(dataPtr), n)
}

// newResampleGraph builds the decode-side filter graph:
// abuffer → aresample → aformat(dbl, mono) → abuffersink.
func newResampleGraph(decCtx *ffmpeg.AVCodecContext, targetRate int) (
	*ffmpeg.AVFilterGraph,
	*ffmpeg.AVFilterContext,
	*ffmpeg.AVFilterContext,
	error,
) {
	spec := fmt.Sprintf("aresample=%d,aformat=sample_fmts=dbl:channel_layouts=mono", targetRate)

	graph := ffmpeg.AVFilterGraphAlloc()
	if graph == nil {
		return nil, nil, nil, fmt.Errorf("failed to allocate filter graph")
	}

	srcCtx, err := createBufferSource(graph, decCtx)
	if err != nil {
		ffmpeg.AVFilterGraphFree(&graph)
		return nil, nil, nil, err
	}
	sinkCtx, err := createBufferSink(graph)
	if err != nil {
		ffmpeg.AVFilterGraphFree(&graph)
		return nil, nil, nil, err
	}

	outputs := ffmpeg.AVFilterInoutAlloc()
	inputs := ffmpeg.AVFilterInoutAlloc()
	defer ffmpeg.AVFilterInoutFree(&outputs)
	defer ffmpeg.AVFilterInoutFree(&inputs)

	outputs.SetName(ffmpeg.ToCStr("in"))
	outputs.SetFilterCtx(srcCtx)
	outputs.SetPadIdx(0)
	outputs.SetNext(nil)

	inputs.SetName(ffmpeg.ToCStr("out"))
	inputs.SetFilterCtx(sinkCtx)
	inputs.SetPadIdx(0)
	inputs.SetNext(nil)

	specC := ffmpeg.ToCStr(spec)
	defer specC.Free()

	if _, err := ffmpeg.AVFilterGraphParsePtr(graph, specC, &inputs, &outputs, nil); err != nil {
		ffmpeg.AVFilterGraphFree(&graph)
		return nil, nil, nil, fmt.Errorf("failed to parse filter graph: %w", err)
	}
	if _, err := ffmpeg.AVFilterGraphConfig(graph, nil); err != nil {
		ffmpeg.AVFilterGraphFree(&graph)
		return nil, nil, nil, fmt.Errorf("failed to configure filter graph: %w", err)
	}

	return graph, srcCtx, sinkCtx, nil
}

// createBufferSource creates and configures the abuffer source filter from
// the decoder's stream parameters.
func createBufferSource(graph *ffmpeg.AVFilterGraph, decCtx *ffmpeg.AVCodecContext) (*ffmpeg.AVFilterContext, error) {
	bufferSrc := ffmpeg.AVFilterGetByName(ffmpeg.GlobalCStr("abuffer"))
	if bufferSrc == nil {
		return nil, fmt.Errorf("abuffer filter not found")
	}

	layoutPtr := ffmpeg.AllocCStr(64)
	defer layoutPtr.Free()
	if _, err := ffmpeg.AVChannelLayoutDescribe(decCtx.ChLayout(), layoutPtr, 64); err != nil {
		return nil, fmt.Errorf("failed to get channel layout: %w", err)
	}

	pktTimebase := decCtx.PktTimebase()
	args := fmt.Sprintf(
		"time_base=%d/%d:sample_rate=%d:sample_fmt=%s:channel_layout=%s",
		pktTimebase.Num(), pktTimebase.Den(),
		decCtx.SampleRate(),
		ffmpeg.AVGetSampleFmtName(decCtx.SampleFmt()).String(),
		layoutPtr.String(),
	)

	argsC := ffmpeg.ToCStr(args)
	defer argsC.Free()

	var srcCtx *ffmpeg.AVFilterContext
	if _, err := ffmpeg.AVFilterGraphCreateFilter(
		&srcCtx, bufferSrc, ffmpeg.GlobalCStr("in"), argsC, nil, graph,
	); err != nil {
		return nil, fmt.Errorf("failed to create abuffer: %w", err)
	}
	return srcCtx, nil
}

// createBufferSink creates the abuffersink output filter.
func createBufferSink(graph *ffmpeg.AVFilterGraph) (*ffmpeg.AVFilterContext, error) {
	bufferSink := ffmpeg.AVFilterGetByName(ffmpeg.GlobalCStr("abuffersink"))
	if bufferSink == nil {
		return nil, fmt.Errorf("abuffersink filter not found")
	}

	var sinkCtx *ffmpeg.AVFilterContext
	if _, err := ffmpeg.AVFilterGraphCreateFilter(
		&sinkCtx, bufferSink, ffmpeg.GlobalCStr("out"), nil, nil, graph,
	); err != nil {
		return nil, fmt.Errorf("failed to create abuffersink: %w", err)
	}
	return sinkCtx, nil
}
