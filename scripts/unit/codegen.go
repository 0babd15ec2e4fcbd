package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/template"
)

type unit struct {
	Name     string
	Symbol   string
	Exponent int
}

type tableData struct {
	Units  []unit
	Powers []string
}

const maxPower = 18

func main() {
	// Open the input file and read its contents
	data, err := readCsvFile(filepath.Join("scripts", "unit", "unit_data.csv"))
	if err != nil {
		panic(fmt.Errorf("error reading CSV file: %v", err))
	}

	// Convert the CSV records to a list of units
	units, err := convertDataToUnits(data)
	if err != nil {
		panic(fmt.Errorf("error converting CSV records: %v", err))
	}

	// Generate Go code from the units using a template
	table := tableData{Units: units, Powers: powersOfTen(maxPower)}
	code, err := generateGoCode(filepath.Join("scripts", "unit", "unit_data.tmpl"), table)
	if err != nil {
		panic(fmt.Errorf("error generating Go code: %v", err))
	}

	// Write the generated Go code to a file
	err = writeToFile("unit_data.go", code)
	if err != nil {
		panic(fmt.Errorf("error writing to file: %v", err))
	}
}

func readCsvFile(filename string) ([][]string, error) {
	// Open the CSV file
	in, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = in.Close() }()

	// Read the CSV records
	reader := csv.NewReader(in)
	_, err = reader.Read() // header
	if err != nil {
		return nil, err
	}
	recs, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	return recs, nil
}

func convertDataToUnits(data [][]string) ([]unit, error) {
	units := []unit{}
	for _, rec := range data {
		exp, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("unit %v: %w", rec[0], err)
		}
		if exp > 0 || exp%3 != 0 || exp < -maxPower {
			return nil, fmt.Errorf("unit %v: exponent %v is not a multiple of 3 in [-%v, 0]", rec[0], exp, maxPower)
		}
		units = append(units, unit{Name: rec[0], Symbol: rec[1], Exponent: exp})
	}

	// Symbol tables are indexed by -exponent/3, so units must be contiguous
	sort.Slice(units, func(i, j int) bool {
		return units[i].Exponent > units[j].Exponent
	})
	for i, u := range units {
		if u.Exponent != -3*i {
			return nil, fmt.Errorf("unit %v: expected exponent %v", u.Name, -3*i)
		}
	}
	return units, nil
}

func powersOfTen(n int) []string {
	pows := make([]string, 0, n+1)
	p := int64(1)
	for i := 0; i <= n; i++ {
		pows = append(pows, strconv.FormatInt(p, 10))
		p *= 10
	}
	return pows
}

func generateGoCode(filename string, table tableData) ([]byte, error) {
	// Create a new template object from the template file
	tmpl, err := template.New(filepath.Base(filename)).ParseFiles(filename)
	if err != nil {
		return nil, err
	}

	// Execute the template
	var output bytes.Buffer
	err = tmpl.Execute(&output, table)
	if err != nil {
		return nil, err
	}

	// Format the output as Go code
	formatted, err := format.Source(output.Bytes())
	if err != nil {
		return nil, err
	}
	return formatted, nil
}

func writeToFile(filename string, content []byte) error {
	// Write the content to a file
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	writer := bufio.NewWriter(out)
	_, err = writer.Write(content)
	if err != nil {
		return err
	}
	err = writer.Flush()
	if err != nil {
		return err
	}
	return nil
}
