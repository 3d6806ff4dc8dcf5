package store

import (
	"time"

	"github.com/google/uuid"

	"quire/internal/article/models"
)

// SeedCatalog returns the demo article catalog the platform ships with until
// a publishing pipeline feeds it real content.
func SeedCatalog() []*models.Article {
	day := func(d int) time.Time {
		return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
	}

	return []*models.Article{
		{
			ID:          uuid.New(),
			Title:       "Reproducibility of Deep Learning Benchmarks in Genomics",
			Abstract:    "We re-run forty published genomics models and find fewer than half reproduce their reported accuracy within one standard deviation.",
			Authors:     []string{"Ada Lovelace", "Grace Hopper"},
			Subjects:    []string{"Computational Biology", "Machine Learning"},
			DOI:         "10.5555/quire.2025.001",
			PublishedAt: day(0),
		},
		{
			ID:          uuid.New(),
			Title:       "Peer Review Latency and the Growth of Preprint Servers",
			Abstract:    "An empirical study of review turnaround across 1.2 million submissions, correlated with the rise of field-specific preprint repositories.",
			Authors:     []string{"Barbara Liskov"},
			Subjects:    []string{"Scientometrics"},
			DOI:         "10.5555/quire.2025.002",
			PublishedAt: day(4),
		},
		{
			ID:          uuid.New(),
			Title:       "Quantifying Citation Bias in Interdisciplinary Journals",
			Abstract:    "Citation networks from 300 interdisciplinary journals show systematic under-citation of methods papers relative to results papers.",
			Authors:     []string{"Margaret Hamilton", "Katherine Johnson"},
			Subjects:    []string{"Scientometrics", "Statistics"},
			DOI:         "10.5555/quire.2025.003",
			PublishedAt: day(9),
		},
		{
			ID:          uuid.New(),
			Title:       "Open Data Mandates and Compliance in Clinical Trials",
			Abstract:    "Only 31% of trials subject to open-data mandates released analyzable datasets within the required window.",
			Authors:     []string{"Dorothy Vaughan"},
			Subjects:    []string{"Medicine", "Research Policy"},
			DOI:         "10.5555/quire.2025.004",
			PublishedAt: day(15),
		},
		{
			ID:          uuid.New(),
			Title:       "A Formal Model of Retraction Cascades",
			Abstract:    "We model how a single retraction propagates through dependent literature and estimate the half-life of invalidated claims.",
			Authors:     []string{"Edsger Dijkstra", "Tony Hoare"},
			Subjects:    []string{"Mathematics", "Research Policy"},
			DOI:         "10.5555/quire.2025.005",
			PublishedAt: day(21),
		},
	}
}
