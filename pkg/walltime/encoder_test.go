//go:build unit || !integration

package walltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

type EncoderTestSuite struct {
	suite.Suite
}

func TestEncoderTestSuite(t *testing.T) {
	suite.Run(t, new(EncoderTestSuite))
}

func (s *EncoderTestSuite) TestEncode() {
	tests := []struct {
		name  string
		total int64
		want  models.WalltimeDuration
		queue models.Queue
	}{
		{
			name:  "OneOfEach",
			total: 3661,
			want:  models.WalltimeDuration{Days: 0, Hours: 1, Minutes: 1, Seconds: 1},
			queue: models.QueueShort,
		},
		{
			name:  "Zero",
			total: 0,
			want:  models.WalltimeDuration{},
			queue: models.QueueShort,
		},
		{
			name:  "DayAndAnHour",
			total: 90000,
			want:  models.WalltimeDuration{Days: 1, Hours: 1},
			queue: models.QueueShort,
		},
		{
			name:  "JustBelowLong",
			total: 259199,
			want:  models.WalltimeDuration{Days: 2, Hours: 23, Minutes: 59, Seconds: 59},
			queue: models.QueueShort,
		},
		{
			name:  "ExactlyThreeDays",
			total: 259200,
			want:  models.WalltimeDuration{Days: 3},
			queue: models.QueueLong,
		},
		{
			name:  "LongMixed",
			total: 4*86400 + 5*3600 + 6*60 + 7,
			want:  models.WalltimeDuration{Days: 4, Hours: 5, Minutes: 6, Seconds: 7},
			queue: models.QueueLong,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, queue := Encode(tt.total)
			s.Equal(tt.want, got)
			s.Equal(tt.queue, queue)
			s.Equal(tt.total, got.TotalSeconds())
		})
	}
}

func (s *EncoderTestSuite) TestEncodeChecked() {
	_, _, err := EncodeChecked(0)
	s.Error(err)
	_, _, err = EncodeChecked(-5)
	s.Error(err)

	w, q, err := EncodeChecked(60)
	s.Require().NoError(err)
	s.Equal(models.WalltimeDuration{Minutes: 1}, w)
	s.Equal(models.QueueShort, q)
}

func (s *EncoderTestSuite) TestEncodeDuration() {
	w, q := EncodeDuration(72*time.Hour + 1500*time.Millisecond)
	s.Equal(models.WalltimeDuration{Days: 3, Seconds: 1}, w)
	s.Equal(models.QueueLong, q)
}

func (s *EncoderTestSuite) TestRendering() {
	w, _ := Encode(90061)
	s.Equal("1:01:01:01", w.MoabString())
	s.Equal("1-01:01:01", w.SlurmString())
	s.Equal("25:01:01", w.PBSString())
}
