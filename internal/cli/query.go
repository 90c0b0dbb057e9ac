package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"visearch/internal/domain"
	"visearch/internal/tui"
)

var queryImage string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Find the catalog products closest to a query image",
	Long: `Rank the whole catalog against a query image under cosine similarity
and euclidean distance. With --image the result is printed once; without
it an interactive session opens.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		if queryImage == "" {
			m := tui.New(env.svc)
			_, err := tea.NewProgram(m).Run()
			return err
		}

		res, err := env.svc.Query(cmd.Context(), queryImage)
		if err != nil {
			return err
		}
		fmt.Print(renderQueryResult(res))
		return nil
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryImage, "image", "", "query image file (omit for interactive mode)")
	rootCmd.AddCommand(queryCmd)
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderQueryResult(res domain.QueryResult) string {
	var b strings.Builder
	b.WriteString(renderBest("Best match by cosine similarity", res.CosineBest, "similarity"))
	b.WriteString(renderBest("Best match by euclidean distance", res.EuclideanBest, "distance"))
	b.WriteString(renderTopK("Top matches by cosine similarity", res.CosineTopK))
	b.WriteString(renderTopK("Top matches by euclidean distance", res.EuclideanTopK))
	return b.String()
}

func renderBest(title string, m *domain.Match, scoreName string) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(title))
	b.WriteString("\n")
	if m == nil {
		b.WriteString("  (no ranking: every candidate was excluded)\n\n")
		return b.String()
	}
	fmt.Fprintf(&b, "  id %d | %s | $%.2f | %d in stock | %s %.4f\n",
		m.ProductID, m.Name, m.Price, m.Amount, scoreName, m.Score)
	b.WriteString(dimStyle.Render("  image: "+m.ImagePath) + "\n\n")
	return b.String()
}

func renderTopK(title string, matches []domain.Match) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(title))
	b.WriteString("\n")
	for i, m := range matches {
		fmt.Fprintf(&b, "  %d. %-24s %.4f\n", i+1, m.Name, m.Score)
	}
	if len(matches) == 0 {
		b.WriteString("  (none)\n")
	}
	b.WriteString("\n")
	return b.String()
}
