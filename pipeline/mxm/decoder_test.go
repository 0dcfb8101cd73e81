package mxm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/danielemorotti/msdset/internal/errors"
)

func testVocabWords() []string {
	words := make([]string, VocabularySize)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i+1)
	}
	return words
}

func testVocabLine() string {
	return "%" + strings.Join(testVocabWords(), ",")
}

func TestLyricsRoundTrip(t *testing.T) {
	vocab := NewVocabulary([]string{"word1", "word2", "word3"})
	wc := &WordCount{
		TrackID: "TR1",
		MxmID:   "1",
		Counts:  []IndexCount{{Index: 1, Count: 2}, {Index: 3, Count: 1}},
	}

	lyrics, err := wc.Lyrics(vocab)
	require.NoError(t, err)
	require.Equal(t, "word1 word1 word3", lyrics)
}

func TestLyricsPreservesSourceOrder(t *testing.T) {
	// Index order follows the source row, it is never sorted.
	vocab := NewVocabulary([]string{"word1", "word2", "word3"})
	wc := &WordCount{
		TrackID: "TR1",
		Counts:  []IndexCount{{Index: 3, Count: 1}, {Index: 1, Count: 2}},
	}

	lyrics, err := wc.Lyrics(vocab)
	require.NoError(t, err)
	require.Equal(t, "word3 word1 word1", lyrics)
}

func TestLyricsIndexOutOfRange(t *testing.T) {
	vocab := NewVocabulary([]string{"word1"})
	wc := &WordCount{TrackID: "TR1", Counts: []IndexCount{{Index: 2, Count: 1}}}

	_, err := wc.Lyrics(vocab)
	require.Error(t, err)
	require.Equal(t, apperrors.ErrCodeParse, apperrors.CodeOf(err))
}

func TestVocabularyWord(t *testing.T) {
	vocab := NewVocabulary([]string{"a", "b"})

	word, err := vocab.Word(1)
	require.NoError(t, err)
	require.Equal(t, "a", word)

	word, err = vocab.Word(2)
	require.NoError(t, err)
	require.Equal(t, "b", word)

	for _, index := range []int{0, -1, 3} {
		_, err := vocab.Word(index)
		require.Error(t, err, "index %d", index)
	}
}

func TestVocabularyImmutable(t *testing.T) {
	words := []string{"a", "b", "c"}
	vocab := NewVocabulary(words)
	words[0] = "mutated"

	word, err := vocab.Word(1)
	require.NoError(t, err)
	require.Equal(t, "a", word)

	vocab.Words()[1] = "mutated"
	word, err = vocab.Word(2)
	require.NoError(t, err)
	require.Equal(t, "b", word)
}

func TestParseDataset(t *testing.T) {
	input := strings.Join([]string{
		"# musiXmatch dataset",
		"# comment lines are skipped",
		testVocabLine(),
		"TRAAAAV128F421A322,4623710,1:6,2:4,5:2",
		"TRAAABD128F429CF47,6477168,3:1",
	}, "\n")

	ds, err := ParseDataset(strings.NewReader(input), "test.txt")
	require.NoError(t, err)
	require.Equal(t, VocabularySize, ds.Vocabulary.Len())
	require.Len(t, ds.Records, 2)

	first := ds.Records[0]
	require.Equal(t, "TRAAAAV128F421A322", first.TrackID)
	require.Equal(t, "4623710", first.MxmID)
	require.Equal(t, []IndexCount{{1, 6}, {2, 4}, {5, 2}}, first.Counts)

	second := ds.Records[1]
	require.Equal(t, "TRAAABD128F429CF47", second.TrackID)
	require.Equal(t, []IndexCount{{3, 1}}, second.Counts)
}

func TestParseDatasetErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{
			name:  "row before vocabulary",
			lines: []string{"TR1,1,1:2"},
		},
		{
			name:  "vocabulary wrong size",
			lines: []string{"%just,three,words", "TR1,1,1:2"},
		},
		{
			name:  "too few fields",
			lines: []string{testVocabLine(), "TR1,1"},
		},
		{
			name:  "missing colon",
			lines: []string{testVocabLine(), "TR1,1,12"},
		},
		{
			name:  "non-integer index",
			lines: []string{testVocabLine(), "TR1,1,x:2"},
		},
		{
			name:  "non-integer count",
			lines: []string{testVocabLine(), "TR1,1,1:x"},
		},
		{
			name:  "index zero",
			lines: []string{testVocabLine(), "TR1,1,0:2"},
		},
		{
			name:  "index beyond vocabulary",
			lines: []string{testVocabLine(), "TR1,1,5001:2"},
		},
		{
			name:  "empty track id",
			lines: []string{testVocabLine(), ",1,1:2"},
		},
		{
			name:  "no vocabulary line",
			lines: []string{"# only comments"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataset(strings.NewReader(strings.Join(tt.lines, "\n")), "test.txt")
			require.Error(t, err)
			require.Equal(t, apperrors.ErrCodeParse, apperrors.CodeOf(err))
		})
	}
}

func TestParseDatasetErrorNamesLine(t *testing.T) {
	input := strings.Join([]string{
		"# header",
		testVocabLine(),
		"TR1,1,1:2",
		"TR2,2,bad",
	}, "\n")

	_, err := ParseDataset(strings.NewReader(input), "mxm_dataset_train.txt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "mxm_dataset_train.txt:4")
}
