package rankings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/draftday/draftsim/internal/domain/player"
	"github.com/draftday/draftsim/internal/platform/resilience"
)

const sampleSheet = `RK,TIERS,PLAYER NAME,TEAM,POS,BYE WEEK,SOS SEASON,ADP
1,1,Justin Jefferson,MIN,WR1,13,3 out of 5 stars,1.2
2,1,Christian McCaffrey,SF,RB1,9,4 out of 5 stars,1.8
3,2,Travis Kelce,KC,TE1,10,2 out of 5 stars,8.5
4,2,Patrick Mahomes,KC,QB1,10,2 out of 5 stars,22.0
5,3,49ers,SF,DST1,9,1 out of 5 stars,120.0
6,3,Justin Tucker,BAL,K1,13,3 out of 5 stars,140.0
`

func TestParseCSVMapsColumnsAndPositions(t *testing.T) {
	client := NewClient(ClientConfig{})

	players, err := client.ParseCSV(strings.NewReader(sampleSheet))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(players) != 6 {
		t.Fatalf("expected 6 players, got %d", len(players))
	}

	first := players[0]
	if first.Name != "Justin Jefferson" || first.Position != player.PositionWR {
		t.Fatalf("unexpected first row %+v", first)
	}
	if first.Rank != 1 || first.Tier != 1 || first.ByeWeek != 13 || first.SOS != 3 || first.ADP != 1.2 {
		t.Fatalf("unexpected first row fields %+v", first)
	}
	if first.ID != "001-justin-jefferson" {
		t.Fatalf("unexpected id %s", first.ID)
	}

	if players[4].Position != player.PositionDST {
		t.Fatalf("DST1 mapped to %s", players[4].Position)
	}
	if players[5].Position != player.PositionK {
		t.Fatalf("K1 mapped to %s", players[5].Position)
	}
}

func TestParseCSVAltHeadersAndDefenseAliases(t *testing.T) {
	sheet := strings.Join([]string{
		`RANK,NAME,POSITION`,
		`1,Micah Parsons,DEF`,
		`2,Some Defense,D/ST`,
	}, "\n")

	players, err := NewClient(ClientConfig{}).ParseCSV(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, p := range players {
		if p.Position != player.PositionDST {
			t.Fatalf("%s mapped to %s", p.Name, p.Position)
		}
	}
}

func TestParseCSVSyntheticTiersFromRank(t *testing.T) {
	rows := []string{`RK,PLAYER NAME,POS`}
	rows = append(rows,
		`5,Early Player,RB`,
		`10,Band Edge,WR`,
		`11,Next Band,WR`,
		`25,Deep Player,TE`,
	)

	players, err := NewClient(ClientConfig{}).ParseCSV(strings.NewReader(strings.Join(rows, "\n")))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	wantTiers := map[int]int{5: 1, 10: 1, 11: 2, 25: 3}
	for _, p := range players {
		if p.Tier != wantTiers[p.Rank] {
			t.Fatalf("rank %d got tier %d, want %d", p.Rank, p.Tier, wantTiers[p.Rank])
		}
	}
}

func TestParseCSVDropsBadRowsKeepsGood(t *testing.T) {
	sheet := strings.Join([]string{
		`RK,PLAYER NAME,POS`,
		`1,Good Player,RB`,
		`not-a-rank,Broken Player,RB`,
		`3,Mystery Position,XX`,
		`4,Another Good One,WR`,
	}, "\n")

	players, err := NewClient(ClientConfig{}).ParseCSV(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 surviving rows, got %d", len(players))
	}
}

func TestParseCSVMissingColumns(t *testing.T) {
	sheet := "FOO,BAR\n1,2\n"
	_, err := NewClient(ClientConfig{}).ParseCSV(strings.NewReader(sheet))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
}

func TestParseCSVEmptySheet(t *testing.T) {
	if _, err := NewClient(ClientConfig{}).ParseCSV(strings.NewReader("")); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows for empty input, got %v", err)
	}

	headerOnly := "RK,PLAYER NAME,POS\n"
	if _, err := NewClient(ClientConfig{}).ParseCSV(strings.NewReader(headerOnly)); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows for header-only sheet, got %v", err)
	}
}

func TestFetchCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleSheet))
	}))
	defer srv.Close()

	players, err := NewClient(ClientConfig{}).FetchCSV(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(players) != 6 {
		t.Fatalf("expected 6 players, got %d", len(players))
	}
}

func TestFetchCSVBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewClient(ClientConfig{}).FetchCSV(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetchCSVBreakerOpensAfterRepeatedFailures(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		Breaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchCSV(context.Background(), srv.URL); err == nil {
			t.Fatal("expected upstream failure")
		}
	}

	_, err := client.FetchCSV(context.Background(), srv.URL)
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if hits != 2 {
		t.Fatalf("expected breaker to stop the third request, upstream saw %d", hits)
	}
}

func TestParseSOSClamping(t *testing.T) {
	cases := map[string]int{
		"3 out of 5 stars": 3,
		"5":                5,
		"9 stars":          5,
		"0":                0,
		"unknown":          0,
		"":                 0,
	}
	for raw, want := range cases {
		if got := parseSOS(raw); got != want {
			t.Errorf("parseSOS(%q) = %d, want %d", raw, got, want)
		}
	}
}
