package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	book    string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bookkeeper",
		Short: "Bookkeeper CLI tool",
		Long:  `A command line interface for interacting with the bookkeeper API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the bookkeeper API")
	rootCmd.PersistentFlags().StringVar(&book, "book", "main", "Book name")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	var (
		account   string
		startDate string
		endDate   string
	)

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show an account balance",
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			if account != "" {
				query.Set("account", account)
			}
			if startDate != "" {
				query.Set("start_date", startDate)
			}
			if endDate != "" {
				query.Set("end_date", endDate)
			}
			get(bookPath("/balance"), query)
		},
	}
	balanceCmd.Flags().StringVar(&account, "account", "", "Account path, e.g. Assets:Cash")
	balanceCmd.Flags().StringVar(&startDate, "start", "", "Start date (RFC3339 or YYYY-MM-DD)")
	balanceCmd.Flags().StringVar(&endDate, "end", "", "End date (RFC3339 or YYYY-MM-DD)")

	var (
		page    int
		perPage int
	)

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "List transactions",
		Run: func(cmd *cobra.Command, args []string) {
			query := url.Values{}
			if account != "" {
				query.Set("account", account)
			}
			if page > 0 {
				query.Set("page", fmt.Sprint(page))
			}
			if perPage > 0 {
				query.Set("per_page", fmt.Sprint(perPage))
			}
			get(bookPath("/ledger"), query)
		},
	}
	ledgerCmd.Flags().StringVar(&account, "account", "", "Account path, e.g. Assets:Cash")
	ledgerCmd.Flags().IntVar(&page, "page", 0, "Page number")
	ledgerCmd.Flags().IntVar(&perPage, "per-page", 0, "Rows per page")

	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "List accounts used in the book",
		Run: func(cmd *cobra.Command, args []string) {
			get(bookPath("/accounts"), nil)
		},
	}

	var reason string

	voidCmd := &cobra.Command{
		Use:   "void <journal-id>",
		Short: "Void a journal entry",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]string{}
			if reason != "" {
				body["reason"] = reason
			}
			post(bookPath("/journals/"+args[0]+"/void"), body)
		},
	}
	voidCmd.Flags().StringVar(&reason, "reason", "", "Void reason")

	var entryFile string

	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Commit a journal entry from a JSON file",
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(entryFile)
			if err != nil {
				fmt.Printf("Error reading entry file: %v\n", err)
				os.Exit(1)
			}
			var body map[string]any
			if err := json.Unmarshal(data, &body); err != nil {
				fmt.Printf("Invalid entry file: %v\n", err)
				os.Exit(1)
			}
			post(bookPath("/entries"), body)
		},
	}
	entryCmd.Flags().StringVar(&entryFile, "file", "entry.json", "JSON file with memo and legs")

	rootCmd.AddCommand(balanceCmd, ledgerCmd, accountsCmd, voidCmd, entryCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func bookPath(suffix string) string {
	return "/api/v1/books/" + url.PathEscape(book) + suffix
}

func get(path string, query url.Values) {
	target := baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(target)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func post(path string, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
