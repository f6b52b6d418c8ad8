// Package export encodes report tables into columnar files.
package export

import (
	"fmt"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetContentType is the media type served for Parquet downloads.
const ParquetContentType = "application/vnd.apache.parquet"

const writerParallelism = 4

// TeamRow is one day of the team trend. Metric columns hold the daily team
// mean; gap-filled days are all zero with Sessions 0.
type TeamRow struct {
	Date           string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ISOYear        int32   `parquet:"name=iso_year, type=INT32"`
	ISOWeek        int32   `parquet:"name=iso_week, type=INT32"`
	Sessions       int32   `parquet:"name=sessions, type=INT32"`
	IsMatch        bool    `parquet:"name=is_match, type=BOOLEAN"`
	DurationMin    float64 `parquet:"name=duration_min, type=DOUBLE"`
	TotalDistance  float64 `parquet:"name=total_distance, type=DOUBLE"`
	HSRDistance    float64 `parquet:"name=hsr_dist, type=DOUBLE"`
	SprintDistance float64 `parquet:"name=sprint_dist, type=DOUBLE"`
	MaxSpeed       float64 `parquet:"name=max_speed_km_h, type=DOUBLE"`
	AvgSpeed       float64 `parquet:"name=avg_speed_km_h, type=DOUBLE"`
	AccEvents      float64 `parquet:"name=acc_events, type=DOUBLE"`
	DecEvents      float64 `parquet:"name=dec_events, type=DOUBLE"`
	MaxAcc         float64 `parquet:"name=max_acc_ms2, type=DOUBLE"`
	MaxDec         float64 `parquet:"name=max_dec_ms2, type=DOUBLE"`
	MPECount       float64 `parquet:"name=mpe_count, type=DOUBLE"`
	MPEAvgTime     float64 `parquet:"name=mpe_avg_time, type=DOUBLE"`
	MPEAvgPower    float64 `parquet:"name=mpe_avg_power, type=DOUBLE"`
	MPEAvgRecTime  float64 `parquet:"name=mpe_avg_rec_time, type=DOUBLE"`
	Energy         float64 `parquet:"name=energy, type=DOUBLE"`
	AnEnergy       float64 `parquet:"name=an_energy, type=DOUBLE"`
}

// TeamParquet writes rows as a Snappy-compressed Parquet file.
func TeamParquet(rows []TeamRow) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(TeamRow), writerParallelism)
	if err != nil {
		return nil, fmt.Errorf("parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for i := range rows {
		if err := pw.Write(rows[i]); err != nil {
			_ = pw.WriteStop()
			return nil, fmt.Errorf("parquet row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("parquet flush: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}
