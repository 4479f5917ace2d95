package main

import (
	"fmt"
	"net/http"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/gorilla/mux"
	"github.com/spf13/afero"

	"github.com/kiteco/dnamutation/kite-go/health"
	"github.com/kiteco/dnamutation/kite-go/mutation"
	"github.com/kiteco/dnamutation/kite-go/web/midware"
	"github.com/kiteco/dnamutation/kite-golib/logging"
	"github.com/kiteco/dnamutation/kite-golib/rollbar"
)

func main() {
	args := struct {
		Port    int    `arg:"env:PORT" help:"port to listen on"`
		Dataset string `help:"labeled DNA sequences (Sequence,Mutation columns)"`
	}{
		Port:    5000,
		Dataset: "dna.csv",
	}
	arg.MustParse(&args)

	logger := logging.Sugar("mutation-server")
	defer logging.Logger.Sync()
	defer rollbar.Wait()

	dataset, err := mutation.LoadDataset(afero.NewOsFs(), args.Dataset, logger)
	if err != nil {
		logger.Fatalw("failed to load dataset", "path", args.Dataset, "error", err)
	}

	split := dataset.Split(mutation.DefaultTestSize, mutation.DefaultSeed)
	logger.Infow("split dataset", "train", len(split.TrainSequences), "test", len(split.TestSequences))

	router := mux.NewRouter()
	mutation.NewServer(router, mutation.NewPipeline(dataset, split, logger), logger)
	router.HandleFunc(health.Endpoint, health.NewHandler(func() (string, error) {
		if len(split.TrainSequences) == 0 {
			return "", &mutation.InsufficientDataError{}
		}
		return fmt.Sprintf("%d sequences loaded", dataset.Len()), nil
	})).Methods("GET")

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", args.Port),
		Handler:      midware.Wrap(router, logger),
		ReadTimeout:  time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	logger.Infow("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalw("server exited", "error", err)
	}
}
