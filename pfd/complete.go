package main

import (
	"slices"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/cmd"
	"github.com/etnz/holdings/config"
	"github.com/etnz/holdings/docs"
)

// completion describes the command line for shell completion. Install it
// with COMP_INSTALL=1 pfd.
func completion() *complete.Command {
	themes := predict.Set(config.Themes)
	categories := predict.Set(categoryNames())

	sub := map[string]*complete.Command{
		"show": {Flags: map[string]complete.Predictor{
			"category": categories,
			"format":   predict.Set{"term", "md", "html", "json"},
			"theme":    themes,
		}},
		"watch": {Flags: map[string]complete.Predictor{
			"category": categories,
			"theme":    themes,
		}},
		"serve": {Flags: map[string]complete.Predictor{
			"addr": predict.Nothing,
		}},
		"chart": {Flags: map[string]complete.Predictor{
			"o":        predict.Files("*"),
			"category": categories,
		}},
		"categories": {
			Flags: map[string]complete.Predictor{"sector": predict.Something},
			Args:  predict.Set(stockNames()),
		},
		"topic": {
			Flags: map[string]complete.Predictor{"list": predict.Nothing},
			Args:  predict.Set(topicNames()),
		},
	}
	for _, c := range cmd.Commands {
		if _, ok := sub[c.Name()]; !ok {
			sub[c.Name()] = &complete.Command{}
		}
	}
	sub["help"] = &complete.Command{}
	sub["flags"] = &complete.Command{}
	sub["commands"] = &complete.Command{}

	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"config":     predict.Files("*"),
			"log-level":  predict.Set{"debug", "info", "warn", "error"},
			"log-pretty": predict.Nothing,
			"width":      predict.Something,
		},
	}
}

func categoryNames() []string {
	names := []string{holdings.All}
	for _, e := range holdings.DefaultCategories().Entries() {
		if !slices.Contains(names, e.Category) {
			names = append(names, e.Category)
		}
	}
	return names
}

func stockNames() []string {
	var names []string
	for _, e := range holdings.DefaultCategories().Entries() {
		names = append(names, e.Stock)
	}
	return names
}

func topicNames() []string {
	topics, _ := docs.GetAllTopics()
	return append(topics, "*")
}
