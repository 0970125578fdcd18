package llm_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	llm "github.com/chemarena/arena/internal/adapters/llm"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSimulatedClient_Generate(t *testing.T) {
	Convey("Given a new simulated client", t, func() {
		client := llm.NewSimulatedClient(
			llm.WithLatencyRange(1*time.Millisecond, 5*time.Millisecond),
		)

		Convey("When generating a response", func() {
			req := llm.Request{
				ModelID: "gpt-4",
				Prompt:  "Explain recursion to a beginner.",
			}

			Convey("Then it should return a valid response", func() {
				resp, err := client.Generate(context.Background(), req)
				So(err, ShouldBeNil)
				So(resp.ModelID, ShouldEqual, "gpt-4")
				So(resp.Text, ShouldNotBeEmpty)
				So(resp.Latency, ShouldBeGreaterThanOrEqualTo, 1*time.Millisecond)
				So(resp.Latency, ShouldBeLessThan, 5*time.Millisecond)
			})

			Convey("And the text should mention the model and the prompt", func() {
				resp, err := client.Generate(context.Background(), req)
				So(err, ShouldBeNil)
				So(strings.Contains(resp.Text, "gpt-4"), ShouldBeTrue)
				So(strings.Contains(resp.Text, req.Prompt), ShouldBeTrue)
			})
		})

		Convey("When two clients share a seed", func() {
			a := llm.NewSimulatedClient(
				llm.WithSeed(7),
				llm.WithLatencyRange(1*time.Millisecond, 5*time.Millisecond),
			)
			b := llm.NewSimulatedClient(
				llm.WithSeed(7),
				llm.WithLatencyRange(1*time.Millisecond, 5*time.Millisecond),
			)
			req := llm.Request{ModelID: "claude-3", Prompt: "Write a haiku about rivers."}

			Convey("Then their outputs should match", func() {
				respA, errA := a.Generate(context.Background(), req)
				respB, errB := b.Generate(context.Background(), req)
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(respA.Text, ShouldEqual, respB.Text)
				So(respA.Latency, ShouldEqual, respB.Latency)
			})
		})

		Convey("When the request is invalid", func() {
			Convey("And the model id is empty", func() {
				_, err := client.Generate(context.Background(), llm.Request{Prompt: "hi"})
				So(err, ShouldEqual, llm.ErrEmptyModel)
			})

			Convey("And the prompt is empty", func() {
				_, err := client.Generate(context.Background(), llm.Request{ModelID: "gpt-4"})
				So(err, ShouldEqual, llm.ErrEmptyPrompt)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Convey("Then generation should fail", func() {
				_, err := client.Generate(ctx, llm.Request{ModelID: "gpt-4", Prompt: "hi"})
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When generating concurrently", func() {
			const workers = 10
			var wg sync.WaitGroup
			errs := make(chan error, workers)

			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := client.Generate(context.Background(), llm.Request{
						ModelID: "gpt-4",
						Prompt:  "Explain goroutines.",
					})
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then every generation should succeed", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
			})
		})
	})
}

func TestRateLimited(t *testing.T) {
	Convey("Given a rate-limited client", t, func() {
		inner := llm.NewSimulatedClient(
			llm.WithLatencyRange(1*time.Millisecond, 3*time.Millisecond),
		)

		Convey("When the limit is generous", func() {
			limited := llm.NewRateLimited(inner, 1000, 10)

			Convey("Then requests should pass through", func() {
				resp, err := limited.Generate(context.Background(), llm.Request{
					ModelID: "gpt-4",
					Prompt:  "Explain channels.",
				})
				So(err, ShouldBeNil)
				So(resp.ModelID, ShouldEqual, "gpt-4")
			})
		})

		Convey("When the context is already cancelled", func() {
			limited := llm.NewRateLimited(inner, 1, 1)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			// Drain the initial burst so the next call must wait
			_, _ = limited.Generate(context.Background(), llm.Request{ModelID: "gpt-4", Prompt: "hi"})

			Convey("Then the wait should fail", func() {
				_, err := limited.Generate(ctx, llm.Request{ModelID: "gpt-4", Prompt: "hi"})
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When constructed with non-positive settings", func() {
			limited := llm.NewRateLimited(inner, 0, 0)

			Convey("Then defaults should apply and requests still succeed", func() {
				resp, err := limited.Generate(context.Background(), llm.Request{
					ModelID: "claude-3",
					Prompt:  "Explain slices.",
				})
				So(err, ShouldBeNil)
				So(resp.ModelID, ShouldEqual, "claude-3")
			})
		})
	})
}
