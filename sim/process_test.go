package sim

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSpecs_Valid(t *testing.T) {
	assert.NoError(t, ValidateSpecs(nil))
	assert.NoError(t, ValidateSpecs(DefaultProcessSpecs()))
	assert.NoError(t, ValidateSpecs([]ProcessSpec{{PID: 1, Arrival: 0, Burst: 1, Priority: -5}}))
}

func TestValidateSpecs_DuplicatePID_ReportsBothPositions(t *testing.T) {
	// GIVEN pid 2 appearing at index 0 and index 2
	specs := []ProcessSpec{
		{PID: 2, Burst: 1},
		{PID: 1, Burst: 1},
		{PID: 2, Burst: 1},
	}

	// WHEN validated
	err := ValidateSpecs(specs)

	// THEN the error points at the second occurrence and mentions the first
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 2, verr.Index)
	assert.True(t, strings.Contains(err.Error(), "spec[0]"), "error %q should mention first position", err)
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestSpecsFromColumns_FillsMissingValues(t *testing.T) {
	// GIVEN columns of uneven length
	specs := SpecsFromColumns([]int{0, 2, 4}, []int{5, 3}, nil)

	// THEN pids are sequential and missing values default
	assert.Equal(t, []ProcessSpec{
		{PID: 1, Arrival: 0, Burst: 5},
		{PID: 2, Arrival: 2, Burst: 3},
		{PID: 3, Arrival: 4, Burst: 1},
	}, specs)
}

func TestSpecsFromColumns_Empty(t *testing.T) {
	assert.Empty(t, SpecsFromColumns(nil, nil, nil))
}

func TestTimelineSlice_Duration(t *testing.T) {
	assert.Equal(t, 3, TimelineSlice{Start: 4, End: 7}.Duration())
}
