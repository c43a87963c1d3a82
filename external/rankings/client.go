package rankings

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/draftday/draftsim/internal/domain/player"
	"github.com/draftday/draftsim/internal/platform/logging"
	"github.com/draftday/draftsim/internal/platform/resilience"
)

// Rankings sheets come from several export formats that disagree on
// header naming. The parser is lenient: it maps known aliases, skips
// rows it cannot make a valid player out of, and reports how many it
// dropped instead of failing the whole sheet.

const defaultTierSize = 10

var trailingDigitsRegex = regexp.MustCompile(`\d+$`)
var leadingIntRegex = regexp.MustCompile(`^\d+`)

var ErrNoRows = crerr.New("rankings sheet has no data rows")
var ErrMissingColumns = crerr.New("rankings sheet is missing required columns")

type ClientConfig struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *logging.Logger
	// TierSize is the rank span of a synthetic tier, used when the sheet
	// carries no tier column.
	TierSize int
	Breaker  resilience.CircuitBreakerConfig
}

// Client loads player rankings from CSV sheets, either fetched over
// HTTP or read directly.
type Client struct {
	httpClient *http.Client
	logger     *logging.Logger
	tierSize   int
	breaker    *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	tierSize := cfg.TierSize
	if tierSize <= 0 {
		tierSize = defaultTierSize
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Breaker.Enabled {
		normalized := resilience.NormalizeCircuitBreakerConfig(cfg.Breaker)
		breaker = resilience.NewCircuitBreaker(
			normalized.FailureThreshold,
			normalized.OpenTimeout,
			normalized.HalfOpenMaxReq,
		)
	}

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		tierSize:   tierSize,
		breaker:    breaker,
	}
}

// FetchCSV downloads a rankings sheet and parses it.
func (c *Client) FetchCSV(ctx context.Context, url string) ([]player.Player, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("rankings url is required")
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return nil, crerr.Wrap(err, "rankings upstream")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build rankings request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordUpstream(false)
		return nil, crerr.Wrap(err, "fetch rankings sheet")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recordUpstream(false)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, crerr.Newf("rankings sheet returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	c.recordUpstream(true)

	return c.ParseCSV(resp.Body)
}

func (c *Client) recordUpstream(ok bool) {
	if c.breaker == nil {
		return
	}
	if ok {
		c.breaker.RecordSuccess()
		return
	}
	c.breaker.RecordFailure()
}

// ParseCSV reads a rankings sheet into validated, rank-sorted players.
func (c *Client) ParseCSV(r io.Reader) ([]player.Player, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports pad or trim trailing columns
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, crerr.Wrap(err, "read rankings header")
	}

	cols := mapColumns(header)
	if cols.rank < 0 || cols.name < 0 || cols.position < 0 {
		return nil, crerr.Wrapf(ErrMissingColumns, "header %v", header)
	}

	players := make([]player.Player, 0, 256)
	skipped := 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped++
			c.logger.Warn("rankings row unreadable", "line", line, "error", err)
			continue
		}

		p, err := c.parseRow(cols, record)
		if err != nil {
			skipped++
			c.logger.Warn("rankings row dropped", "line", line, "error", err)
			continue
		}
		players = append(players, p)
	}

	if len(players) == 0 {
		return nil, ErrNoRows
	}
	if skipped > 0 {
		c.logger.Info("rankings sheet parsed with drops",
			"players", len(players),
			"skipped", skipped)
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].Rank != players[j].Rank {
			return players[i].Rank < players[j].Rank
		}
		return players[i].ID < players[j].ID
	})

	return players, nil
}

type columnMap struct {
	rank     int
	name     int
	team     int
	position int
	tier     int
	bye      int
	adp      int
	sos      int
}

func mapColumns(header []string) columnMap {
	cols := columnMap{rank: -1, name: -1, team: -1, position: -1, tier: -1, bye: -1, adp: -1, sos: -1}

	for i, raw := range header {
		switch normalizeHeader(raw) {
		case "RK", "RANK", "OVERALL RANK":
			cols.rank = i
		case "PLAYER NAME", "PLAYER", "NAME":
			cols.name = i
		case "TEAM", "TM":
			cols.team = i
		case "POS", "POSITION":
			cols.position = i
		case "TIERS", "TIER":
			cols.tier = i
		case "BYE WEEK", "BYE":
			cols.bye = i
		case "ADP", "AVG PICK", "AVG. PICK":
			cols.adp = i
		case "SOS", "SOS SEASON":
			cols.sos = i
		}
	}

	return cols
}

func normalizeHeader(raw string) string {
	return strings.ToUpper(strings.Trim(strings.TrimSpace(raw), `"`))
}

func (c *Client) parseRow(cols columnMap, record []string) (player.Player, error) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rank, err := strconv.Atoi(field(cols.rank))
	if err != nil {
		return player.Player{}, crerr.Newf("bad rank %q", field(cols.rank))
	}

	name := field(cols.name)
	pos, ok := normalizePosition(field(cols.position))
	if !ok {
		return player.Player{}, crerr.Newf("unknown position %q", field(cols.position))
	}

	p := player.Player{
		ID:       playerID(rank, name),
		Name:     name,
		Team:     strings.ToUpper(field(cols.team)),
		Position: pos,
		Rank:     rank,
		Tier:     c.parseTier(field(cols.tier), rank),
		ByeWeek:  parseOptionalInt(field(cols.bye)),
		ADP:      parseOptionalFloat(field(cols.adp)),
		SOS:      parseSOS(field(cols.sos)),
	}

	if err := p.Validate(); err != nil {
		return player.Player{}, err
	}
	return p, nil
}

// normalizePosition accepts bare positions ("RB"), positional ranks
// ("RB12") and the defense spellings the sheets disagree on.
func normalizePosition(raw string) (player.Position, bool) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	token = trailingDigitsRegex.ReplaceAllString(token, "")

	switch token {
	case "DEF", "D/ST", "DST", "D":
		return player.PositionDST, true
	case "PK":
		return player.PositionK, true
	}

	pos := player.Position(token)
	if _, ok := player.AllPositions[pos]; ok {
		return pos, true
	}
	return "", false
}

func (c *Client) parseTier(raw string, rank int) int {
	if tier, err := strconv.Atoi(raw); err == nil && tier > 0 {
		return tier
	}
	// Sheets without tiers get synthetic ones from rank bands so tier
	// based scoring still has something to work with.
	return (rank-1)/c.tierSize + 1
}

func parseOptionalInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseOptionalFloat(raw string) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// parseSOS reads values like "4", "4 out of 5 stars" or "4 stars",
// clamped to the 1-5 star scale. Anything unreadable means unknown.
func parseSOS(raw string) int {
	token := leadingIntRegex.FindString(strings.TrimSpace(raw))
	if token == "" {
		return 0
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	if n < 1 {
		return 0
	}
	if n > 5 {
		return 5
	}
	return n
}

// playerID derives a stable identifier from the sheet row. Rankings
// exports carry no IDs of their own, and rank is unique within a sheet.
func playerID(rank int, name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '.', r == '\'':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(strings.ReplaceAll(slug, "--", "-"), "-")
	if slug == "" {
		slug = "player"
	}
	return fmt.Sprintf("%03d-%s", rank, slug)
}
