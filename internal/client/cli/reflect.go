package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) reflect(ctx context.Context) {
	reflections, err := a.reflections.Generate(ctx)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	for _, r := range reflections {
		printlnFn(fmt.Sprintf("--- %s reflection (%s .. %s, sentiment %s) ---",
			r.Type,
			r.PeriodStart.Format("2006-01-02"),
			r.PeriodEnd.Format("2006-01-02"),
			r.SentimentTrend))
		printlnFn(r.Content)
		printlnFn("Themes:", strings.Join(r.KeyThemes, ", "))
		printlnFn("")
	}
}
