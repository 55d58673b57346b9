package medline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `PMID- 1
OWN - NLM
DP  - 2021 Mar
TI  - Dislocation after total hip arthroplasty: a registry
      study of 10,000 patients.
PG  - 100-105
LID - 10.1016/j.arth.2020.01.001 [doi]
AB  - Dislocation remains a leading cause of revision.
      We analysed registry data.
CI  - Copyright 2021.
FAU - Doe, Jane
AU  - Doe J
FAU - Roe, Richard
MH  - Arthroplasty, Replacement, Hip
MH  - Humans
OT  - dislocation
AID - 10.1016/j.arth.2020.01.001 [doi]
AID - S0883-5403(20)30001-1 [pii]

PMID- 2
DP  - 2019
TI  - Knee infection.
PG  - 1-2
FAU - Poe, Edgar
`

func TestParse(t *testing.T) {
	raws, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, raws, 2)

	first := raws[0]
	assert.Equal(t, "Dislocation after total hip arthroplasty: a registry study of 10,000 patients.", first.Title)
	assert.Equal(t, "Dislocation remains a leading cause of revision. We analysed registry data.", first.Abstract)
	assert.Equal(t, []string{"Doe, Jane", "Roe, Richard"}, first.Authors)
	assert.Equal(t, "10.1016/j.arth.2020.01.001", first.DOI)
	assert.Equal(t, []string{"Arthroplasty, Replacement, Hip", "Humans"}, first.MeshHeadings)
	assert.Equal(t, []string{"dislocation"}, first.OtherTerms)
	assert.Equal(t, "2021 Mar", first.PublicationDate)

	second := raws[1]
	assert.Equal(t, "Knee infection.", second.Title)
	assert.Empty(t, second.Abstract)
	assert.Empty(t, second.DOI)
	assert.Equal(t, []string{"Poe, Edgar"}, second.Authors)
	assert.Equal(t, "2019", second.PublicationDate)
}

func TestParse_HeaderFieldsBelongToTheirOwnRecord(t *testing.T) {
	in := "PMID- 1\nDP  - 2021 Mar\nTI  - First.\nFAU - A, B\n\n" +
		"PMID- 2\nDP  - 2019\nTI  - Second.\nFAU - C, D\n"
	raws, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, "First.", raws[0].Title)
	assert.Equal(t, "2021 Mar", raws[0].PublicationDate)
	assert.Equal(t, []string{"A, B"}, raws[0].Authors)
	assert.Equal(t, "Second.", raws[1].Title)
	assert.Equal(t, "2019", raws[1].PublicationDate)
	assert.Equal(t, []string{"C, D"}, raws[1].Authors)
}

func TestParse_RecordWithoutTitleIsDropped(t *testing.T) {
	in := "PMID- 1\nDP  - 2020\nFAU - No, Title\n\nPMID- 2\nTI  - Kept.\n"
	raws, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "Kept.", raws[0].Title)
	assert.Empty(t, raws[0].PublicationDate)
}

func TestParse_FieldsBeforeFirstTitleAreDropped(t *testing.T) {
	raws, err := Parse(strings.NewReader("FAU - Orphan, A\nAB  - stray\n"))
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestParse_TitleStartsNewRecord(t *testing.T) {
	in := "TI  - One\nAB  - first\nTI  - Two\nAB  - second\n"
	raws, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "first", raws[0].Abstract)
	assert.Equal(t, "second", raws[1].Abstract)
}

func TestParse_AbstractStopsAtNextTag(t *testing.T) {
	in := "TI  - T\nAB  - line one\n      line two\nFAU - Doe, Jane\n      not abstract\n"
	raws, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "line one line two", raws[0].Abstract)
}

func TestParse_CRLF(t *testing.T) {
	raws, err := Parse(strings.NewReader("TI  - Windows\r\n      export\r\nAB  - text\r\n"))
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "Windows export", raws[0].Title)
}
