package replay

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"

	"main/internal/model"
)

// columns of a bar CSV row: symbol, RFC3339 timestamp, OHLC, volume.
const fieldCount = 7

// Reader streams market bars from a CSV file. An optional header row
// starting with "symbol" is skipped.
type Reader struct {
	file *os.File
	csv  *csv.Reader
	line int
}

// Open opens a bar CSV for streaming.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open bars file")
	}
	r := csv.NewReader(file)
	r.FieldsPerRecord = fieldCount
	return &Reader{file: file, csv: r}, nil
}

// Next returns the next bar, or io.EOF when the file is exhausted.
func (r *Reader) Next() (model.MarketBar, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return model.MarketBar{}, io.EOF
		}
		if err != nil {
			return model.MarketBar{}, errors.Wrap(err, "read bars file")
		}
		r.line++
		if r.line == 1 && record[0] == "symbol" {
			continue
		}
		bar, err := parseBar(record)
		if err != nil {
			return model.MarketBar{}, errors.Wrap(err, "line "+strconv.Itoa(r.line))
		}
		return bar, nil
	}
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadAll loads an entire bar CSV into memory.
func ReadAll(path string) ([]model.MarketBar, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var bars []model.MarketBar
	for {
		bar, err := r.Next()
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
}

func parseBar(record []string) (model.MarketBar, error) {
	ts, err := time.Parse(time.RFC3339, record[1])
	if err != nil {
		return model.MarketBar{}, errors.Wrap(err, "timestamp")
	}
	prices := make([]decimal.Decimal, 4)
	for i, name := range []string{"open", "high", "low", "close"} {
		prices[i], err = decimal.NewFromString(record[2+i])
		if err != nil {
			return model.MarketBar{}, errors.Wrap(err, name)
		}
	}
	volume, err := strconv.ParseInt(record[6], 10, 64)
	if err != nil {
		return model.MarketBar{}, errors.Wrap(err, "volume")
	}
	if record[0] == "" {
		return model.MarketBar{}, errors.New("empty symbol")
	}
	return model.MarketBar{
		Symbol:    record[0],
		Timestamp: ts,
		Open:      prices[0],
		High:      prices[1],
		Low:       prices[2],
		Close:     prices[3],
		Volume:    volume,
	}, nil
}
