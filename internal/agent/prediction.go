// Package agent generates predictions and records them in the oracle
// contract.
package agent

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/sibyl-oracle/sibyl-contract/contracts/oracle/oracleconst"
)

// Prediction sources.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Prediction is a statement ready to be registered in the oracle.
type Prediction struct {
	Statement  string
	Confidence int
	Hours      int
	// Source is either SourceModel or SourceFallback.
	Source string
}

// ErrUnparsable is returned by ParseReply when the reply misses some of the
// expected lines.
var ErrUnparsable = errors.New("unparsable reply")

var (
	predictionRe = regexp.MustCompile(`(?i)PREDICTION:[ \t]*(.+)`)
	confidenceRe = regexp.MustCompile(`(?i)CONFIDENCE:[ \t]*(\d+)`)
	hoursRe      = regexp.MustCompile(`(?i)HOURS:[ \t]*(\d+)`)
)

var fallbacks = []Prediction{
	{Statement: "SOL will test key resistance at $200 in the next 24h | Sibyl Oracle", Confidence: 65, Hours: 24},
	{Statement: "BTC will consolidate between $95k-$100k before next move | Sibyl Oracle", Confidence: 70, Hours: 48},
	{Statement: "ETH/BTC ratio will increase by 2% in the next 72h | Sibyl Oracle", Confidence: 60, Hours: 72},
}

// ParseReply extracts prediction from the model reply of the form
//
//	PREDICTION: <statement>
//	CONFIDENCE: <0..100>
//	HOURS: <1..255>
//
// Keys are case-insensitive and may appear anywhere in the text, each value
// must be on the same line as its key.
func ParseReply(text string) (Prediction, error) {
	pm := predictionRe.FindStringSubmatch(text)
	cm := confidenceRe.FindStringSubmatch(text)
	hm := hoursRe.FindStringSubmatch(text)
	if pm == nil || cm == nil || hm == nil {
		return Prediction{}, ErrUnparsable
	}

	p := Prediction{
		Statement: strings.TrimSpace(pm[1]),
		Source:    SourceModel,
	}

	var err error
	if p.Confidence, err = strconv.Atoi(cm[1]); err != nil {
		return Prediction{}, fmt.Errorf("%w: confidence: %w", ErrUnparsable, err)
	}
	if p.Hours, err = strconv.Atoi(hm[1]); err != nil {
		return Prediction{}, fmt.Errorf("%w: hours: %w", ErrUnparsable, err)
	}

	if err = p.Validate(); err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrUnparsable, err)
	}
	return p, nil
}

// Validate checks that the contract accepts the prediction.
func (p Prediction) Validate() error {
	switch {
	case p.Statement == "":
		return errors.New("empty statement")
	case len(p.Statement) > oracleconst.MaxStatementLength:
		return fmt.Errorf("statement is %d bytes long, max %d", len(p.Statement), oracleconst.MaxStatementLength)
	case p.Confidence < 0 || p.Confidence > oracleconst.MaxConfidence:
		return fmt.Errorf("confidence %d is out of range", p.Confidence)
	case p.Hours <= 0 || p.Hours > oracleconst.MaxDeadlineHours:
		return fmt.Errorf("deadline %dh is out of range", p.Hours)
	}
	return nil
}

// Fallback returns one of the canned predictions at random.
func Fallback() Prediction {
	return fallbackAt(rand.Intn(len(fallbacks)))
}

func fallbackAt(i int) Prediction {
	p := fallbacks[i]
	p.Source = SourceFallback
	return p
}

// Announcement renders a social media post about the registered
// prediction. txLink is a transaction hash or an explorer link.
func Announcement(id uint64, p Prediction, txLink string) string {
	return fmt.Sprintf("🔮 Sibyl Oracle Prediction #%d\n\n\"%s\"\n\nConfidence: %d%%\nDeadline: %dh\n\nTX: %s\n\n#Neo #AI #Oracle",
		id, p.Statement, p.Confidence, p.Hours, txLink)
}
