package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the ewt tool.
// Run "COMP_INSTALL=1 ewt" to install it.
func Completion() *complete.Command {
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":   predict.Files("*.yaml"),
			"env-file": predict.Files("*"),
			"v":        predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"allocate": {
				Flags: map[string]complete.Predictor{
					"tickers": predict.Or(predict.Files("*.csv"), predict.Files("*.xlsx")),
					"budget":  predict.Something,
					"out":     predict.Dirs("*"),
					"backoff": predict.Nothing,
				},
			},
			"quote": {
				Flags: map[string]complete.Predictor{
					"exchange": predict.Something,
				},
				Args: predict.Something,
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
