//Package kyc scores names against the Consolidated Screening List.
//The search is fuzzy enough to allow for minor misspells; the list is
//cached locally and redownloaded when stale.
package kyc

import (
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"paket.global/funder-go/config"
	"paket.global/funder-go/util"
)

//CSLChecker holds the individual entries of the screening list
type CSLChecker struct {
	names []string //normalized individual names
}

//NewCSLChecker downloads the list when the local copy is missing or older
//than the configured age, then loads it
func NewCSLChecker() (*CSLChecker, error) {
	checker := &CSLChecker{}
	if err := checker.download(); err != nil {
		util.LogWarn("cannot download screening list: %v", err)
	}
	if err := checker.load(); err != nil {
		return nil, err
	}
	return checker, nil
}

//download fetches a new copy only when the local file is stale
func (c *CSLChecker) download() error {
	info, err := os.Stat(config.Public.KYC.CSLFile)
	if err == nil {
		age := time.Since(info.ModTime())
		if age < time.Duration(config.Public.KYC.MaxAgeH)*time.Hour {
			return nil
		}
		util.LogInfo("screening list is %d hours old, redownloading", int(age.Hours()))
	}
	resp, err := http.Get(config.Public.KYC.CSLURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	out, err := os.Create(config.Public.KYC.CSLFile)
	if err != nil {
		return err
	}
	defer out.Close()
	var writeErr error
	err = util.ReadReader(resp.Body, func(block []byte) {
		if writeErr == nil {
			_, writeErr = out.Write(block)
		}
	})
	if err != nil {
		return err
	}
	return writeErr
}

//load reads the individual rows of the local csv
func (c *CSLChecker) load() error {
	file, err := os.Open(config.Public.KYC.CSLFile)
	if err != nil {
		return err
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return err
	}
	nameIdx, typeIdx := -1, -1
	for i, col := range header {
		switch col {
		case "name":
			nameIdx = i
		case "type":
			typeIdx = i
		}
	}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if typeIdx < 0 || nameIdx < 0 || len(row) <= nameIdx || len(row) <= typeIdx {
			continue
		}
		if row[typeIdx] == "Individual" {
			c.names = append(c.names, normalize(row[nameIdx]))
		}
	}
	util.LogInfo("loaded %d screening list entries", len(c.names))
	return nil
}

//ScoreName calculates a risk score for a name, 0 (no fit) to 1 (found)
func (c *CSLChecker) ScoreName(name string) float64 {
	top := 0.0
	target := normalize(name)
	for _, listed := range c.names {
		if score := similarity(target, listed); score > top {
			top = score
			if top == 1 {
				break
			}
		}
	}
	return top
}

//BasicTest is the basic KYC test: positive unless the name scores above the
//configured threshold
func (c *CSLChecker) BasicTest(name string) int {
	if c.ScoreName(name) > config.Public.KYC.Threshold {
		return 0
	}
	return 1
}

//normalize lower-cases, strips punctuation and sorts the name tokens, so
//"Doe, John" and "john doe" compare equal
func normalize(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == '.' || r == '\'' || r == '-' {
			return ' '
		}
		return r
	}, strings.ToLower(name))
	tokens := strings.Fields(cleaned)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

//similarity is 1 - normalized edit distance
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
