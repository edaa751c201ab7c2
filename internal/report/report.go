// Package report renders cluster summaries and player listings as terminal
// tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/riftcoach/riftcoach/internal/archetype"
	"github.com/riftcoach/riftcoach/internal/model"
	"github.com/riftcoach/riftcoach/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintClusterTable prints per-cluster mean stats with labels, followed by
// the rule-based description of each cluster centroid.
func PrintClusterTable(w io.Writer, sums []archetype.ClusterSummary) {
	table := newTable(w)
	table.Header("CLUSTER", "LABEL", "N", "K", "D", "A", "KDA", "CS/MIN", "GOLD", "DMG", "TAKEN", "VISION", "DUR(MIN)")

	for _, s := range sums {
		m := s.Means
		table.Append(
			strconv.Itoa(s.Cluster),
			s.Enrichment.Label,
			strconv.Itoa(s.Count),
			fmt.Sprintf("%.1f", m[0]),
			fmt.Sprintf("%.1f", m[1]),
			fmt.Sprintf("%.1f", m[2]),
			fmt.Sprintf("%.2f", m[6]),
			fmt.Sprintf("%.1f", m[5]),
			fmt.Sprintf("%.0f", m[3]),
			fmt.Sprintf("%.0f", m[10]),
			fmt.Sprintf("%.0f", m[11]),
			fmt.Sprintf("%.1f", m[7]),
			fmt.Sprintf("%.1f", m[16]/60),
		)
	}
	table.Render()

	fmt.Fprintln(w)
	for _, s := range sums {
		if s.Count == 0 {
			fmt.Fprintf(w, "  cluster %d (%s): no rows\n", s.Cluster, s.Enrichment.Label)
			continue
		}
		fmt.Fprintf(w, "  cluster %d (%s): %s\n", s.Cluster, s.Enrichment.Label, s.Description)
	}
}

// PrintPlayerTable lists cached players.
func PrintPlayerTable(w io.Writer, players []storage.PlayerRecord) {
	table := newTable(w)
	table.Header("RIOT ID", "REGION", "PUUID")
	for _, p := range players {
		table.Append(p.GameName+"#"+p.TagLine, p.PlatformRegion, p.PUUID)
	}
	table.Render()
}

// PrintScoringResult prints one scored match.
func PrintScoringResult(w io.Writer, res *model.ScoringResult) {
	fmt.Fprintf(w, "\nCluster:   %d (%s)\n", res.Cluster, res.Label)
	fmt.Fprintf(w, "Archetype: %s\n", res.ArchetypeDescription)
	fmt.Fprintf(w, "Breakdown: %s\n", res.Description)
	fmt.Fprintf(w, "Advice:    %s\n", res.Advice)
}
