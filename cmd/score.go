package cmd

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/document"
	"github.com/D-m-i-t-r-i-y/CV-SCORINH-RECORDING/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a CV against a job description once and print the reply",
	Long: "Score a CV against a job description once and print the reply.\n" +
		"Inputs may be text, hh.ru links or files. Missing inputs are asked for interactively;\n" +
		"the interactive prompt reads a single line, so pass multi-line text with --job-file/--cv-file.",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("job", "", "job description text or hh.ru vacancy link")
	scoreCmd.Flags().String("cv", "", "CV text or hh.ru resume link")
	scoreCmd.Flags().String("job-file", "", "read the job description from a txt, md, pdf or docx file")
	scoreCmd.Flags().String("cv-file", "", "read the CV from a txt, md, pdf or docx file")
	scoreCmd.Flags().Bool("choose-provider", false, "pick the LLM provider interactively")
}

// score is the one-shot scoring command. The reply goes to stdout, logs to stderr.
func score(cmd *cobra.Command) {
	ctx, cancel := signalContext()
	defer cancel()

	logger, err := newLogger("stderr")
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if choose, _ := cmd.Flags().GetBool("choose-provider"); choose {
		provider, err := chooseProvider(config.Provider)
		if err != nil {
			logger.Fatal("choosing a provider", zap.Error(err))
		}
		config.Provider = provider
	}

	job, err := readInput(cmd, "job", "job-file", "Описание вакансии или ссылка")
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	cv, err := readInput(cmd, "cv", "cv-file", "Резюме или ссылка")
	if err != nil {
		logger.Fatal("reading the cv", zap.Error(err))
	}

	svc, err := newScoringService(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating the scoring service", zap.Error(err))
	}

	logger.Info("scoring the candidate", zap.String("provider", svc.Provider()))

	res, err := svc.Score(ctx, scoring.Request{JobDescription: job, CV: cv})
	if err != nil {
		logger.Fatal("scoring failed", zap.Error(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Reply)
}

// readInput takes the value from the file flag, then the text flag, then asks for it.
func readInput(cmd *cobra.Command, textFlag, fileFlag, label string) (string, error) {
	if path, _ := cmd.Flags().GetString(fileFlag); strings.TrimSpace(path) != "" {
		return document.ExtractText(path)
	}

	if cmd.Flags().Changed(textFlag) {
		return cmd.Flags().GetString(textFlag)
	}

	prompt := promptui.Prompt{
		Label: promptLabel(label, fileFlag),
	}

	return prompt.Run()
}

// promptLabel points to the file flag, since promptui reads a single line.
func promptLabel(label, fileFlag string) string {
	return fmt.Sprintf("%s (одна строка, многострочный текст передайте через --%s)", label, fileFlag)
}

func chooseProvider(current string) (string, error) {
	prompt := promptui.Select{
		Label:     "Choose an LLM provider",
		Items:     providers,
		CursorPos: max(slices.Index(providers, strings.ToLower(current)), 0),
	}

	_, provider, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return provider, nil
}
