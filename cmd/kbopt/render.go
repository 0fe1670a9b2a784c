package main

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/rbscholtus/kbopt/internal/solve"
)

// printSolution renders a solved layout as two tables: the movable
// keys' resolved positions, and the arrow cluster's direction-to-block
// assignment, followed by the achieved objective value.
func printSolution(sol *solve.Solution) {
	fmt.Println(placementsTable(sol).Render())
	fmt.Println()
	fmt.Println(arrowsTable(sol).Render())
	fmt.Printf("\nObjective: %.3f ms expected key-press time\n", sol.ObjectiveMS)
}

func placementsTable(sol *solve.Solution) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Key Placements")
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Key", Align: text.AlignLeft},
		{Name: "Row", Align: text.AlignRight},
		{Name: "Col", Align: text.AlignRight},
		{Name: "Width", Align: text.AlignRight},
	})
	tw.AppendHeader(table.Row{"Key", "Row", "Col", "Width"})

	placements := append([]solve.Placement(nil), sol.Placements...)
	sort.Slice(placements, func(i, j int) bool {
		if placements[i].Row != placements[j].Row {
			return placements[i].Row < placements[j].Row
		}
		return placements[i].StartCol < placements[j].StartCol
	})
	for _, p := range placements {
		tw.AppendRow(table.Row{p.Key.String(), p.Row, p.StartCol, fmt.Sprintf("%.2fu", p.WidthU)})
	}
	return tw
}

func arrowsTable(sol *solve.Solution) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Arrow Cluster")
	tw.AppendHeader(table.Row{"Direction", "Row", "Block Col"})

	arrows := append([]solve.ArrowAssignment(nil), sol.Arrows...)
	sort.Slice(arrows, func(i, j int) bool { return arrows[i].Direction < arrows[j].Direction })
	for _, a := range arrows {
		tw.AppendRow(table.Row{a.Direction.String(), a.Block.Row, a.Block.BlockCol})
	}
	return tw
}
