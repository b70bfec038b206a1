package graphbin

import (
	"bytes"
	"testing"

	"github.com/matzehuels/graphpack/pkg/observability"
)

type recordingHooks struct {
	observability.NoopCodecHooks
	headersWritten, headersRead int
	written, read               map[string]int
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{written: map[string]int{}, read: map[string]int{}}
}

func (h *recordingHooks) OnHeaderWritten(string, uint32, uint64) { h.headersWritten++ }
func (h *recordingHooks) OnHeaderRead(string, uint32, uint64)    { h.headersRead++ }
func (h *recordingHooks) OnRecordWritten(kind string, edges int) { h.written[kind] += edges }
func (h *recordingHooks) OnRecordRead(kind string, edges int)    { h.read[kind] += edges }

func TestCodecHooks(t *testing.T) {
	hooks := newRecordingHooks()
	observability.SetCodecHooks(hooks)
	defer observability.Reset()

	edges := []Edge{{1, 2, 1}, {1, 3, 1}, {4, 5, 1}}
	data := encode(t, Header{Tag: "h", NumEdges: 3}, edges, true)
	if _, _, err := ReadEdges(bytes.NewReader(data)); err != nil {
		t.Fatal(err)
	}

	if hooks.headersWritten != 1 || hooks.headersRead != 1 {
		t.Errorf("headers written/read = %d/%d, want 1/1", hooks.headersWritten, hooks.headersRead)
	}
	if hooks.written["batch"] != 3 || hooks.read["batch"] != 3 {
		t.Errorf("batch edges written/read = %d/%d, want 3/3", hooks.written["batch"], hooks.read["batch"])
	}
	if hooks.written["single"] != 0 {
		t.Errorf("single edges written = %d, want 0", hooks.written["single"])
	}
}
