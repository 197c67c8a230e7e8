package smoke

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	ihttp "github.com/abdul-hamid-achik/itemprobe/packages/http"
	"github.com/abdul-hamid-achik/itemprobe/packages/items"
)

// Slots for the items a run creates.
const (
	keyFirst   = "first"
	keySecond  = "second"
	keyThird   = "third"
	keyUpdated = "updated"
	keyDeleted = "deleted"
)

const invalidPayload = "{invalid json}"

type step struct {
	name  string
	needs []string
	// fatal steps abort the run on any error.
	fatal bool
	run   func(ctx context.Context, r *Runner, st *state, res *StepResult) error
}

var script = []step{
	{name: "Connectivity probe", fatal: true, run: probeStep},
	{name: "List items (expect empty)", run: listStep(recordBaseline)},
	{name: "Create first item", run: createStep(keyFirst)},
	{name: "Create second and third items", run: createStep(keySecond, keyThird)},
	{name: "List items (expect created items)", run: listStep(expectCreated)},
	{name: "Get second item by id", needs: []string{keySecond}, run: getStep(keySecond)},
	{name: "Update first item", needs: []string{keyFirst}, run: updateStep},
	{name: "Verify updated item", needs: []string{keyUpdated}, run: getStep(keyUpdated)},
	{name: "Get missing item (expect 404)", run: missingGetStep},
	{name: "Delete third item", needs: []string{keyThird}, run: deleteStep},
	{name: "Verify deleted item is gone", needs: []string{keyDeleted}, run: listStep(expectDeleted)},
	{name: "Delete missing item (expect 404)", run: missingDeleteStep},
	{name: "Invalid payload (expect 400)", run: invalidPayloadStep},
	{name: "Unsupported method (expect 405)", run: invalidMethodStep},
}

// StepNames returns the names of the script's steps in run order.
func StepNames() []string {
	names := make([]string, len(script))
	for i, s := range script {
		names[i] = s.name
	}
	return names
}

func probeStep(ctx context.Context, r *Runner, _ *state, res *StepResult) error {
	err := r.call(ctx, r.client.Probe)
	if err != nil {
		return fmt.Errorf("server unavailable, make sure it is running at %s: %w", r.client.BaseURL(), err)
	}
	res.logf("Server is reachable at %s", r.client.BaseURL())
	return nil
}

func listStep(check func(st *state, list []items.Item) error) func(context.Context, *Runner, *state, *StepResult) error {
	return func(ctx context.Context, r *Runner, st *state, res *StepResult) error {
		var list []items.Item
		err := r.call(ctx, func(ctx context.Context) error {
			var err error
			list, err = r.client.List(ctx)
			return err
		})
		if err != nil {
			return err
		}

		res.logf("Found %d items", len(list))
		for _, item := range list {
			res.logf("%s", item)
		}

		return check(st, list)
	}
}

// recordBaseline keeps the size of the collection before any item is
// created. A fresh server lists nothing; a reused one keeps its old items.
func recordBaseline(st *state, list []items.Item) error {
	if err := uniqueIDs(list); err != nil {
		return err
	}
	st.baseline = len(list)
	st.baselined = true
	return nil
}

func expectCreated(st *state, list []items.Item) error {
	if err := uniqueIDs(list); err != nil {
		return err
	}

	var missing []int
	for _, key := range []string{keyFirst, keySecond, keyThird} {
		created, ok := st.created[key]
		if !ok {
			continue
		}
		if _, found := items.Find(list, created.ID); !found {
			missing = append(missing, created.ID)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("created items missing from list: %v", missing)
	}
	return expectCount(st, list, st.createdCount())
}

func expectDeleted(st *state, list []items.Item) error {
	if err := uniqueIDs(list); err != nil {
		return err
	}

	deleted := st.created[keyDeleted]
	if _, found := items.Find(list, deleted.ID); found {
		return fmt.Errorf("deleted item %d is still listed", deleted.ID)
	}
	return expectCount(st, list, st.createdCount()-1)
}

// expectCount requires the list to hold the baseline plus added items.
func expectCount(st *state, list []items.Item, added int) error {
	if !st.baselined {
		return nil
	}
	if want := st.baseline + added; len(list) != want {
		return fmt.Errorf("expected %d items (%d before the run + %d), listed %d", want, st.baseline, added, len(list))
	}
	return nil
}

func uniqueIDs(list []items.Item) error {
	seen := make(map[int]bool, len(list))
	var dups []int
	for _, item := range list {
		if seen[item.ID] {
			dups = append(dups, item.ID)
		}
		seen[item.ID] = true
	}
	if len(dups) > 0 {
		return fmt.Errorf("duplicate ids in list: %v", dups)
	}
	return nil
}

func createStep(keys ...string) func(context.Context, *Runner, *state, *StepResult) error {
	return func(ctx context.Context, r *Runner, st *state, res *StepResult) error {
		for _, key := range keys {
			payload := r.config.Variant.Payload(key, r.config.Now())
			st.submitted[key] = payload

			var created items.Item
			err := r.call(ctx, func(ctx context.Context) error {
				var err error
				created, err = r.client.Create(ctx, payload)
				return err
			})
			if err != nil {
				return fmt.Errorf("creating %s item: %w", key, err)
			}
			if created.ID == 0 {
				return fmt.Errorf("creating %s item: server did not assign an id", key)
			}

			st.created[key] = created
			res.logf("Created %s", created)
			if err := r.compare(payload, created); err != nil {
				return fmt.Errorf("created %s item: %w", key, err)
			}
		}
		return nil
	}
}

// getStep reads the item stored under key and compares it with the payload
// submitted for it.
func getStep(key string) func(context.Context, *Runner, *state, *StepResult) error {
	return func(ctx context.Context, r *Runner, st *state, res *StepResult) error {
		id := st.created[key].ID
		var got items.Item
		err := r.call(ctx, func(ctx context.Context) error {
			var err error
			got, err = r.client.Get(ctx, id)
			return err
		})
		if err != nil {
			return err
		}

		res.logf("Found %s", got)
		if got.ID != 0 && got.ID != id {
			return fmt.Errorf("asked for item %d, got item %d", id, got.ID)
		}
		return r.compare(st.submitted[key], got)
	}
}

func updateStep(ctx context.Context, r *Runner, st *state, res *StepResult) error {
	id := st.created[keyFirst].ID
	payload := r.config.Variant.Payload(keyUpdated, r.config.Now())
	st.submitted[keyUpdated] = payload

	var updated items.Item
	err := r.call(ctx, func(ctx context.Context) error {
		var err error
		updated, err = r.client.Update(ctx, id, payload)
		return err
	})
	if err != nil {
		return err
	}

	if updated.ID == 0 {
		updated.ID = id
	}
	st.created[keyUpdated] = updated
	res.logf("Updated %s", updated)
	return r.compare(payload, updated)
}

func deleteStep(ctx context.Context, r *Runner, st *state, res *StepResult) error {
	third := st.created[keyThird]

	var message string
	err := r.call(ctx, func(ctx context.Context) error {
		var err error
		message, err = r.client.Delete(ctx, third.ID)
		return err
	})
	if err != nil {
		return err
	}

	st.created[keyDeleted] = third
	res.logf("Deleted item %d", third.ID)
	res.logf("Message: %s", message)
	return nil
}

func missingGetStep(ctx context.Context, r *Runner, _ *state, res *StepResult) error {
	id := r.config.MissingGetID
	res.logf("Reading item %d", id)
	if _, err := r.expectStatus(ctx, res, http.MethodGet, &id, "", http.StatusNotFound); err != nil {
		return err
	}
	res.logf("Expected error: item not found")
	return nil
}

func missingDeleteStep(ctx context.Context, r *Runner, _ *state, res *StepResult) error {
	id := r.config.MissingDeleteID
	res.logf("Deleting item %d", id)
	if _, err := r.expectStatus(ctx, res, http.MethodDelete, &id, "", http.StatusNotFound); err != nil {
		return err
	}
	res.logf("Expected error: item not found")
	return nil
}

func invalidPayloadStep(ctx context.Context, r *Runner, _ *state, res *StepResult) error {
	resp, err := r.expectStatus(ctx, res, http.MethodPost, nil, invalidPayload, http.StatusBadRequest)
	if err != nil {
		return err
	}
	body := strings.TrimSpace(resp.BodyString())
	if body == "" {
		return fmt.Errorf("HTTP %d without an error body", resp.StatusCode)
	}
	res.logf("Expected error: invalid data")
	res.logf("Error message: %s", body)
	return nil
}

func invalidMethodStep(ctx context.Context, r *Runner, _ *state, res *StepResult) error {
	if _, err := r.expectStatus(ctx, res, http.MethodPatch, nil, "{}", http.StatusMethodNotAllowed); err != nil {
		return err
	}
	res.logf("Expected error: method not allowed")
	return nil
}

// expectStatus sends a raw request that must fail with want. A 2xx status
// means the server accepted something it should have refused; any other
// status is reported as an ordinary HTTP error.
func (r *Runner) expectStatus(ctx context.Context, res *StepResult, method string, id *int, body string, want int) (*ihttp.Response, error) {
	res.ExpectedStatus = want

	var resp *ihttp.Response
	err := r.call(ctx, func(ctx context.Context) error {
		var err error
		resp, err = r.client.Send(ctx, method, id, body)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode == want:
		return resp, nil
	case resp.IsSuccess():
		return nil, fmt.Errorf("server accepted %s with %s, want %d", method, resp.Status, want)
	default:
		url := r.client.BaseURL()
		if id != nil {
			url = r.client.ItemURL(*id)
		}
		return nil, &items.HTTPError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       resp.BodyString(),
		}
	}
}

// compare checks the fields the variant sends. Dates are not compared since
// servers may normalise them; the millisecond timestamp is.
func (r *Runner) compare(want, got items.Item) error {
	var diffs []string
	if got.Name != want.Name {
		diffs = append(diffs, fmt.Sprintf("name %q != %q", got.Name, want.Name))
	}
	if got.Price != want.Price {
		diffs = append(diffs, fmt.Sprintf("price %.2f != %.2f", got.Price, want.Price))
	}
	if r.config.Variant.HasVendor() && got.Vendor != want.Vendor {
		diffs = append(diffs, fmt.Sprintf("vendor %q != %q", got.Vendor, want.Vendor))
	}
	if r.config.Variant.HasDates() && got.Timestamp != want.Timestamp {
		diffs = append(diffs, fmt.Sprintf("timestamp %d != %d", got.Timestamp, want.Timestamp))
	}
	if len(diffs) > 0 {
		return fmt.Errorf("unexpected item content: %s", strings.Join(diffs, ", "))
	}
	return nil
}
