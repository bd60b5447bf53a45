package jobboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/util"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// swagger:model JobCategory
type Category struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
}

type DisplayName struct {
	DisplayName string `json:"display_name"`
}

// Posting 与 Adzuna 搜索结果的字段保持一致
// swagger:model JobPosting
type Posting struct {
	ID          string      `json:"id,omitempty"`
	Title       string      `json:"title"`
	Company     DisplayName `json:"company"`
	Location    DisplayName `json:"location"`
	Description string      `json:"description"`
	RedirectURL string      `json:"redirect_url"`
	SalaryMin   float64     `json:"salary_min,omitempty"`
	SalaryMax   float64     `json:"salary_max,omitempty"`
	Created     string      `json:"created,omitempty"`
}

type SearchQuery struct {
	What           string
	Where          string
	ResultsPerPage int
}

type SearchResult struct {
	Count   int       `json:"count"`
	Results []Posting `json:"results"`
}

// Client 招聘数据源
type Client interface {
	Categories(ctx context.Context) ([]Category, error)
	Search(ctx context.Context, q SearchQuery) (*SearchResult, error)
}

type Adzuna struct {
	config config.JobsConfig
	client *http.Client
}

func NewAdzuna(cfg config.JobsConfig) *Adzuna {
	return &Adzuna{
		config: cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (a *Adzuna) configured() bool {
	return a.config.AppID != "" && a.config.AppKey != ""
}

func (a *Adzuna) endpoint(path string, params url.Values) string {
	country := a.config.Country
	if country == "" {
		country = "in"
	}
	params.Set("app_id", a.config.AppID)
	params.Set("app_key", a.config.AppKey)
	return fmt.Sprintf("%s/jobs/%s/%s?%s", strings.TrimRight(a.config.BaseURL, "/"), country, path, params.Encode())
}

func (a *Adzuna) get(ctx context.Context, endpoint string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("job board error (status %d): %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (a *Adzuna) Categories(ctx context.Context) ([]Category, error) {
	if !a.configured() {
		return nil, util.ErrJobsUnavailable
	}
	var out struct {
		Results []Category `json:"results"`
	}
	if err := a.get(ctx, a.endpoint("categories", url.Values{}), &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (a *Adzuna) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if !a.configured() {
		return nil, util.ErrJobsUnavailable
	}
	params := url.Values{}
	if q.What != "" {
		params.Set("what", q.What)
	}
	if q.Where != "" {
		params.Set("where", q.Where)
	}
	if q.ResultsPerPage > 0 {
		params.Set("results_per_page", strconv.Itoa(q.ResultsPerPage))
	}
	params.Set("content-type", "application/json")

	var out SearchResult
	if err := a.get(ctx, a.endpoint("search/1", params), &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		out.Results = []Posting{}
	}
	return &out, nil
}

// StaticCategories 未配置凭证时返回的常见 IT 相关分类
var StaticCategories = []Category{
	{Tag: "it-jobs", Label: "IT Jobs"},
	{Tag: "engineering-jobs", Label: "Engineering Jobs"},
	{Tag: "graduate-jobs", Label: "Graduate Jobs"},
	{Tag: "scientific-qa-jobs", Label: "Scientific & QA Jobs"},
	{Tag: "consultancy-jobs", Label: "Consultancy Jobs"},
	{Tag: "creative-design-jobs", Label: "Creative & Design Jobs"},
	{Tag: "teaching-jobs", Label: "Teaching Jobs"},
}
