package cmd

import (
	"github.com/spf13/cobra"

	"renamer/internal/app/common"
	"renamer/internal/app/hashsum"
)

var hashAlgo string
var hashBase64 bool
var hashRecursive bool

var hashCmd = &cobra.Command{
	Use:   "hash <path>...",
	Short: "Print file digests",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := common.FromCommand(cmd)
		if err != nil {
			return err
		}
		kinds, err := parseKinds(hashAlgo)
		if err != nil {
			return err
		}

		svc := hashsum.NewService()
		result, err := svc.Run(cmd.Context(), app, hashsum.Options{
			Paths:     args,
			Recursive: hashRecursive,
			Kinds:     kinds,
			Base64:    hashBase64,
		})
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func init() {
	hashCmd.Flags().StringVar(&hashAlgo, "algo", "md5", "Comma-separated digests: md5, sha1, sha256, sha384, sha512, crc32")
	hashCmd.Flags().BoolVar(&hashBase64, "base64", false, "Print digests as Base64 instead of hex")
	hashCmd.Flags().BoolVar(&hashRecursive, "recursive", false, "Descend into directory arguments")
}
