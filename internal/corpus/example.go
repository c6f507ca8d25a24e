// Package corpus loads per-subject worked examples and builds the
// read-only structures the retriever ranks them with.
package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Example is one question/answer pair. Immutable after loading.
type Example struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// Text is the searchable form of the example.
func (e Example) Text() string {
	return e.Prompt + "\n" + e.Answer
}

// Block renders the example the way it is injected into prompts.
func (e Example) Block() string {
	return "Q: " + strings.TrimSpace(e.Prompt) + "\nA: " + strings.TrimSpace(e.Answer)
}

// rawRecord accepts the key aliases found in public instruction datasets.
type rawRecord struct {
	Prompt      string `json:"prompt"`
	Question    string `json:"question"`
	Instruction string `json:"instruction"`
	Answer      string `json:"answer"`
	Output      string `json:"output"`
	Response    string `json:"response"`
}

// normalize returns the example and whether both sides are present.
func (r rawRecord) normalize() (Example, bool) {
	ex := Example{
		Prompt: firstNonEmpty(r.Prompt, r.Question, r.Instruction),
		Answer: firstNonEmpty(r.Answer, r.Output, r.Response),
	}
	return ex, ex.Prompt != "" && ex.Answer != ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Decode reads either a JSON array of records or one record per line.
// The format is sniffed from the first non-space byte. In line mode,
// malformed or incomplete lines are skipped and counted; an array that
// fails to parse is an error. Records missing a prompt or an answer are
// dropped in both modes.
func Decode(r io.Reader) (examples []Example, skipped int, err error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	if first == '[' {
		return decodeArray(br)
	}
	return decodeLines(br)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n', 0xEF, 0xBB, 0xBF: // whitespace and UTF-8 BOM
			continue
		}
		return b, br.UnreadByte()
	}
}

func decodeArray(r io.Reader) ([]Example, int, error) {
	var records []rawRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, 0, fmt.Errorf("decode record array: %w", err)
	}
	out := make([]Example, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if ex, ok := rec.normalize(); ok {
			out = append(out, ex)
		} else {
			skipped++
		}
	}
	return out, skipped, nil
}

func decodeLines(r io.Reader) ([]Example, int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var out []Example
	skipped := 0
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec rawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		ex, ok := rec.normalize()
		if !ok {
			skipped++
			continue
		}
		out = append(out, ex)
	}
	if err := sc.Err(); err != nil {
		return out, skipped, fmt.Errorf("read records: %w", err)
	}
	return out, skipped, nil
}
