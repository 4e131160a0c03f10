package curl_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/adamwoolhether/curl"
	"github.com/adamwoolhether/curl/client"
)

func ExampleNewClient() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"msg":"hello"}`)
	}))
	defer ts.Close()

	c, err := curl.NewClient(client.WithTimeout(5 * time.Second))
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	resp, err := c.NewRequest(http.MethodGet, ts.URL).Execute(context.Background())
	if err != nil {
		fmt.Println("execute error:", err)
		return
	}
	defer resp.Close()

	msg, _ := resp.JSON("msg")
	fmt.Println(msg.String())
	// Output: hello
}

func ExampleGet() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "index=%s", r.URL.Query().Get("index"))
	}))
	defer ts.Close()

	resp, err := curl.Get(ts.URL+"/_cat/indices").
		Param("index", "logs-*").
		Execute(context.Background())
	if err != nil {
		fmt.Println("execute error:", err)
		return
	}
	defer resp.Close()

	content, _ := resp.Content()
	fmt.Println(content)
	// Output: index=logs-*
}
