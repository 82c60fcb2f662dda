package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/minirag/minirag-go/pkg/minirag"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			if err := a.coord.Login(cmd.Context(), args[0], password); err != nil {
				return err
			}

			fmt.Println("Logged in as", args[0])
			return nil
		},
	}
}

func registerCmd() *cobra.Command {
	var firstName, lastName string

	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			err = a.coord.Register(cmd.Context(), &minirag.RegisterParams{
				FirstName: firstName,
				LastName:  lastName,
				Email:     args[0],
				Password:  password,
			})
			if err != nil {
				return err
			}

			fmt.Println("Registered", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			a.coord.Logout()
			fmt.Println("Logged out")
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			cred := a.coord.Credential()
			fmt.Println("State:", a.coord.State())
			if cred.User != nil {
				fmt.Println("User:", cred.User.Email)
			}
			if exp, ok := a.coord.TokenExpiresAt(); ok {
				fmt.Println("Token expires:", exp.Local())
			}
			fmt.Println("Project scope:", a.client().ProjectID())
			return nil
		},
	}
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document into the current project scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := a.client().Data.Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}

			fmt.Printf("Uploaded %s (file id %s)\n", result.AssetName, result.FileID)
			return nil
		},
	}
}

func processCmd() *cobra.Command {
	var chunkSize, overlapSize int
	var reset bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Chunk uploaded documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			params := &minirag.ProcessParams{ChunkSize: chunkSize, OverlapSize: overlapSize}
			if reset {
				params.DoReset = 1
			}

			result, err := a.client().Data.Process(cmd.Context(), params)
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d files into %d chunks\n", result.ProcessedFiles, result.InsertedChunks)
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk-size", 512, "chunk size")
	cmd.Flags().IntVar(&overlapSize, "overlap-size", 64, "overlap size")
	cmd.Flags().BoolVar(&reset, "reset", false, "drop existing chunks first")
	return cmd
}

func pushCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push processed chunks into the vector index",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			result, err := a.client().NLP.PushIndex(cmd.Context(), reset)
			if err != nil {
				return err
			}

			fmt.Printf("Indexed %d items\n", result.InsertedItemsCount)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "rebuild the index from scratch")
	return cmd
}

func askCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question over the indexed documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			question := args[0]
			for _, arg := range args[1:] {
				question += " " + arg
			}

			result, err := a.client().NLP.Answer(cmd.Context(), &minirag.AnswerParams{
				Text:  question,
				Limit: limit,
			})
			if err != nil {
				return err
			}

			fmt.Println(result.Answer)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "retrieval depth")
	return cmd
}

func assetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List uploaded documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			assets, err := a.client().Data.ListAssets(cmd.Context())
			if err != nil {
				return err
			}

			for _, asset := range assets {
				fmt.Printf("%d\t%s\t%d bytes\n", asset.AssetID, asset.AssetName, asset.AssetSize)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a document by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			result, err := a.client().Data.DeleteAsset(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println("Deleted", result.AssetName)
			return nil
		},
	})

	return cmd
}

func projectsCmd() *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List personal projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}

			projects, err := a.client().Projects.List(cmd.Context(), userID)
			if err != nil {
				return err
			}

			for _, project := range projects {
				fmt.Printf("%d\t%s\t%s\n", project.ID, project.Name, project.Description)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 1, "owner user id")
	return cmd
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
