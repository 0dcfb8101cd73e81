// Package mxm decodes the musiXmatch bag-of-words dataset: a text file
// whose vocabulary line holds the top 5000 words and whose data rows
// encode per-track word counts as sparse 1-based index:count pairs.
package mxm

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/danielemorotti/msdset/internal/errors"
)

// VocabularySize is the number of entries in the dataset vocabulary.
const VocabularySize = 5000

// Vocabulary is the immutable, ordered word list of the dataset.
// The 1-based position of a word is its only key.
type Vocabulary struct {
	words []string
}

// NewVocabulary copies words into a Vocabulary.
func NewVocabulary(words []string) Vocabulary {
	copied := make([]string, len(words))
	copy(copied, words)
	return Vocabulary{words: copied}
}

// Len returns the number of words.
func (v Vocabulary) Len() int {
	return len(v.words)
}

// Word returns the word at the 1-based index.
func (v Vocabulary) Word(index int) (string, error) {
	if index < 1 || index > len(v.words) {
		return "", apperrors.New(apperrors.ErrCodeParse, "vocabulary index %d out of range [1, %d]", index, len(v.words))
	}
	return v.words[index-1], nil
}

// Words returns a copy of the word list.
func (v Vocabulary) Words() []string {
	copied := make([]string, len(v.words))
	copy(copied, v.words)
	return copied
}

// IndexCount is one sparse count: the vocabulary word at Index occurs
// Count times.
type IndexCount struct {
	Index int
	Count int
}

// WordCount is one decoded data row. Counts preserves the order the
// index:count pairs appear in the source row.
type WordCount struct {
	TrackID string
	MxmID   string
	Counts  []IndexCount
}

// Lyrics reconstructs the bag-of-words text: each word repeated its
// count of times, space-joined, in source index order.
func (wc *WordCount) Lyrics(v Vocabulary) (string, error) {
	var b strings.Builder
	for _, ic := range wc.Counts {
		word, err := v.Word(ic.Index)
		if err != nil {
			return "", err
		}
		for i := 0; i < ic.Count; i++ {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word)
		}
	}
	return b.String(), nil
}

// Dataset is the fully decoded word-count file.
type Dataset struct {
	Vocabulary Vocabulary
	Records    []*WordCount
}

const (
	commentPrefix    = "#"
	vocabularyPrefix = "%"
)

// ParseDataset decodes the raw dataset from r. Comment lines are
// skipped; the %-prefixed line carries the comma-separated vocabulary
// and every following line one track. Malformed rows abort the parse
// with the offending line number; rows are never silently skipped
// because downstream joins key off track_id.
func ParseDataset(r io.Reader, source string) (*Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	ds := &Dataset{}
	seenVocabulary := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		if strings.HasPrefix(line, vocabularyPrefix) {
			if seenVocabulary {
				return nil, apperrors.Parse(source, lineNo, "duplicate vocabulary line")
			}
			words := strings.Split(line[len(vocabularyPrefix):], ",")
			if len(words) != VocabularySize {
				return nil, apperrors.Parse(source, lineNo, "vocabulary has %d entries, want %d", len(words), VocabularySize)
			}
			ds.Vocabulary = NewVocabulary(words)
			seenVocabulary = true
			continue
		}
		if !seenVocabulary {
			return nil, apperrors.Parse(source, lineNo, "data row before vocabulary line")
		}
		record, err := parseRecord(line, ds.Vocabulary.Len(), source, lineNo)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeParse, "failed to read dataset").WithContext("source", source)
	}
	if !seenVocabulary {
		return nil, apperrors.New(apperrors.ErrCodeParse, "no vocabulary line found").WithContext("source", source)
	}
	return ds, nil
}

// parseRecord decodes one "track_id,mxm_id,idx1:cnt1,..." row.
func parseRecord(line string, vocabLen int, source string, lineNo int) (*WordCount, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return nil, apperrors.Parse(source, lineNo, "row has %d fields, want at least 3", len(fields))
	}
	if fields[0] == "" {
		return nil, apperrors.Parse(source, lineNo, "empty track_id")
	}

	record := &WordCount{
		TrackID: fields[0],
		MxmID:   fields[1],
		Counts:  make([]IndexCount, 0, len(fields)-2),
	}
	for _, token := range fields[2:] {
		idxStr, cntStr, found := strings.Cut(token, ":")
		if !found {
			return nil, apperrors.Parse(source, lineNo, "malformed count token %q", token)
		}
		index, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, apperrors.Parse(source, lineNo, "non-integer word index %q", idxStr)
		}
		count, err := strconv.Atoi(cntStr)
		if err != nil {
			return nil, apperrors.Parse(source, lineNo, "non-integer word count %q", cntStr)
		}
		if index < 1 || index > vocabLen {
			return nil, apperrors.Parse(source, lineNo, "word index %d out of range [1, %d]", index, vocabLen)
		}
		if count < 0 {
			return nil, apperrors.Parse(source, lineNo, "negative word count %d", count)
		}
		record.Counts = append(record.Counts, IndexCount{Index: index, Count: count})
	}
	return record, nil
}
