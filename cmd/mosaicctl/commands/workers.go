package commands

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

type workerSummary struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Hashtags  []string  `json:"hashtags"`
	Pieces    int       `json:"pieces"`
	Version   uint64    `json:"version"`
	StartedAt time.Time `json:"started_at"`
	Error     string    `json:"error"`
}

type piecePost struct {
	PostID   string `json:"post_id"`
	UserName string `json:"user_name"`
	Hashtag  string `json:"hashtag"`
	Position struct {
		Row int `json:"row"`
		Col int `json:"col"`
	} `json:"position"`
}

type mosaicResponse struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	MosaicArt     string      `json:"mosaic_art"`
	PiecePosts    []piecePost `json:"piece_posts"`
	InstaHashtags []string    `json:"insta_hashtags"`
	Version       uint64      `json:"version"`
}

func newStartCmd(client func() *apiClient) *cobra.Command {
	var (
		hashtags []string
		piece    []int
	)

	cmd := &cobra.Command{
		Use:   "start <reference-image>",
		Short: "Start a worker for a reference image",
		Long: `Upload a reference image and start harvesting posts for the given hashtags.

The image must match the server's reference size, 3000x3000 by default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(hashtags) == 0 {
				return fmt.Errorf("at least one --hashtag is required")
			}
			if len(piece) != 0 && len(piece) != 2 {
				return fmt.Errorf("--piece-size takes width,height")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading reference image: %w", err)
			}

			body := map[string]any{
				"origin":   base64.StdEncoding.EncodeToString(data),
				"hashtags": hashtags,
			}
			if len(piece) == 2 {
				body["piece_size"] = piece
			}

			var out struct {
				ID string `json:"id"`
			}
			if err := client().do(cmd.Context(), http.MethodPost, "/api/workers", body, &out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.ID)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&hashtags, "hashtag", "t", nil, "Hashtag to harvest (repeatable or comma separated)")
	cmd.Flags().IntSliceVar(&piece, "piece-size", nil, "Piece size as width,height")
	return cmd
}

func newListCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var workers []workerSummary
			if err := client().do(cmd.Context(), http.MethodGet, "/api/workers", nil, &workers); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tPIECES\tHASHTAGS\tSTARTED")
			for _, s := range workers {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
					s.ID, s.Status, s.Pieces, strings.Join(s.Hashtags, ","), s.StartedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newGetCmd(client func() *apiClient) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <worker-id>",
		Short: "Show a worker's mosaic",
		Long:  `Print the placed posts of a worker's mosaic. With --output the mosaic PNG is written to a file.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m mosaicResponse
			if err := client().do(cmd.Context(), http.MethodGet, "/api/workers/"+args[0], nil, &m); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "worker %s: %s, %d pieces, version %d, hashtags %s\n",
				m.ID, m.Status, len(m.PiecePosts), m.Version, strings.Join(m.InstaHashtags, ","))

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ROW\tCOL\tPOST\tUSER\tHASHTAG")
			for _, p := range m.PiecePosts {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", p.Position.Row, p.Position.Col, p.PostID, p.UserName, p.Hashtag)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if output == "" {
				return nil
			}
			png, err := base64.StdEncoding.DecodeString(m.MosaicArt)
			if err != nil {
				return fmt.Errorf("decoding mosaic: %w", err)
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("writing mosaic: %w", err)
			}
			fmt.Fprintf(out, "mosaic written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the mosaic PNG to this file")
	return cmd
}

func newStopCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <worker-id>",
		Short: "Stop a worker and discard its mosaic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().do(cmd.Context(), http.MethodDelete, "/api/workers/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "worker %s stopped\n", args[0])
			return nil
		},
	}
}
