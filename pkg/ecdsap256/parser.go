package ecdsap256

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
)

// SignatureParser defines the interface for parsing signature records from
// various sources.
type SignatureParser interface {
	// ParseSignatures parses records from a source and returns them.
	ParseSignatures(source string) ([]*Record, error)
}

// JSONParser parses signature records from JSON files.
type JSONParser struct {
	MessageField string // Field name for message (default: "message")
	RField       string // Field name for r (default: "r")
	SField       string // Field name for s (default: "s")
	ZField       string // Field name for z/hash (default: "z")
	Digest       Digest // Digest used when only the message is present
	Curve        *CurveParams
}

// ParseSignatures parses records from a JSON file.
//
// Expected format:
//
//	[
//	  {"message": "...", "r": "...", "s": "..."},
//	  {"z": "0x...", "r": "0x...", "s": "0x..."}
//	]
func (p *JSONParser) ParseSignatures(jsonFile string) ([]*Record, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse reads records from r.
func (p *JSONParser) Parse(r io.Reader) ([]*Record, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber() // Preserve large numbers as json.Number instead of float64

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	messageField := orDefault(p.MessageField, "message")
	rField := orDefault(p.RField, "r")
	sField := orDefault(p.SField, "s")
	zField := orDefault(p.ZField, "z")
	curve := p.Curve
	if curve == nil {
		curve = p256
	}

	records := make([]*Record, 0, len(items))
	for i, item := range items {
		var err error
		rec := &Record{}

		if msgVal, ok := item[messageField]; ok {
			msg, ok := msgVal.(string)
			if !ok {
				return nil, fmt.Errorf("record %d: message field must be a string", i)
			}
			rec.Message = []byte(msg)
		}

		if zVal, ok := item[zField]; ok {
			z, err := parseBigInt(zVal)
			if err != nil {
				return nil, fmt.Errorf("record %d: failed to parse z: %w", i, err)
			}
			rec.Z = z
		} else if rec.Message != nil {
			rec.Z = p.Digest.HashToScalar(curve, rec.Message)
		} else {
			return nil, fmt.Errorf("record %d: missing message or z field", i)
		}

		rVal, ok := item[rField]
		if !ok {
			return nil, fmt.Errorf("record %d: missing r field", i)
		}
		if rec.R, err = parseBigInt(rVal); err != nil {
			return nil, fmt.Errorf("record %d: failed to parse r: %w", i, err)
		}

		sVal, ok := item[sField]
		if !ok {
			return nil, fmt.Errorf("record %d: missing s field", i)
		}
		if rec.S, err = parseBigInt(sVal); err != nil {
			return nil, fmt.Errorf("record %d: failed to parse s: %w", i, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

// CSVParser parses signature records from CSV files with a header row.
type CSVParser struct {
	MessageCol string // Column name for message (default: "message")
	RCol       string // Column name for r (default: "r")
	SCol       string // Column name for s (default: "s")
	ZCol       string // Column name for z/hash (default: "z")
	Digest     Digest // Digest used when only the message is present
	Curve      *CurveParams
}

// ParseSignatures parses records from a CSV file.
func (p *CSVParser) ParseSignatures(csvFile string) ([]*Record, error) {
	file, err := os.Open(csvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse reads records from r.
func (p *CSVParser) Parse(r io.Reader) ([]*Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	messageCol := orDefault(p.MessageCol, "message")
	rCol := orDefault(p.RCol, "r")
	sCol := orDefault(p.SCol, "s")
	zCol := orDefault(p.ZCol, "z")
	curve := p.Curve
	if curve == nil {
		curve = p256
	}

	messageIdx, rIdx, sIdx, zIdx := -1, -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case messageCol:
			messageIdx = i
		case rCol:
			rIdx = i
		case sCol:
			sIdx = i
		case zCol:
			zIdx = i
		}
	}

	if rIdx == -1 || sIdx == -1 {
		return nil, fmt.Errorf("missing required columns: r or s")
	}
	if zIdx == -1 && messageIdx == -1 {
		return nil, fmt.Errorf("missing message or z column")
	}

	records := make([]*Record, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		rec := &Record{}
		if messageIdx >= 0 {
			rec.Message = []byte(row[messageIdx])
		}
		if zIdx >= 0 && row[zIdx] != "" {
			if rec.Z, err = parseBigInt(row[zIdx]); err != nil {
				return nil, fmt.Errorf("line %d: failed to parse z: %w", line, err)
			}
		} else if messageIdx >= 0 {
			rec.Z = p.Digest.HashToScalar(curve, rec.Message)
		} else {
			return nil, fmt.Errorf("line %d: missing message or z", line)
		}

		if rec.R, err = parseBigInt(row[rIdx]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse r: %w", line, err)
		}
		if rec.S, err = parseBigInt(row[sIdx]); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse s: %w", line, err)
		}

		records = append(records, rec)
	}

	return records, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// parseBigInt parses a big integer from a hex string (0x prefix or containing
// hex letters), a decimal string or a JSON number.
func parseBigInt(val interface{}) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		return parseIntString(v)

	case json.Number:
		z, ok := new(big.Int).SetString(string(v), 10)
		if !ok {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case float64:
		z, ok := new(big.Int).SetString(fmt.Sprintf("%.0f", v), 10)
		if !ok {
			return nil, fmt.Errorf("invalid number format: %v", v)
		}
		return z, nil

	case int64:
		return big.NewInt(v), nil

	case int:
		return big.NewInt(int64(v)), nil

	default:
		return nil, fmt.Errorf("unsupported type: %T", val)
	}
}

func parseIntString(v string) (*big.Int, error) {
	s := strings.TrimSpace(v)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	} else if strings.ContainsAny(s, "abcdefABCDEF") {
		base = 16
	}

	z, ok := new(big.Int).SetString(s, base)
	if !ok || z.Sign() < 0 {
		return nil, fmt.Errorf("invalid number format: %s", v)
	}
	return z, nil
}
