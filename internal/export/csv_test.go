package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlourenco/bicicletario/internal/models"
	"github.com/rlourenco/bicicletario/internal/register"
)

func sampleView() *register.DailyView {
	morning := time.Date(2025, 3, 10, 8, 30, 0, 0, time.Local)
	noon := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	exit := time.Date(2025, 3, 10, 18, 15, 0, 0, time.Local)

	alice := models.Client{ID: "alice", Name: "Alice", Document: "123.456.789-00", Category: "STORE"}
	bob := models.Client{ID: "bob", Name: "Bob", Document: "987.654.321-11", Category: "GYM"}

	rows := []register.Row{
		{
			Client: alice,
			Bike:   models.Bike{ID: "bk-trek", Model: "Trek", Brand: "Trek Bikes", Color: "blue"},
			Entry: models.Entry{
				ID: "e1", ClientID: "alice", BikeID: "bk-trek",
				BikeSnapshot:   models.BikeSnapshot{Model: "Trek", Brand: "Trek Bikes", Color: "blue"},
				EntryTimestamp: morning, ExitTimestamp: &exit,
			},
		},
		{
			Client: bob,
			Bike:   models.Bike{ID: "bk-giant", Model: "Giant", Brand: "Giant Mfg", Color: "red"},
			Entry: models.Entry{
				ID: "e2", ClientID: "bob", BikeID: "bk-giant", Category: "GYM",
				BikeSnapshot:   models.BikeSnapshot{Model: "Giant", Brand: "Giant Mfg", Color: "red"},
				EntryTimestamp: noon, Overnight: true,
			},
		},
	}

	return &register.DailyView{
		Date:       "2025-03-10",
		Rows:       rows,
		Categories: map[string]int{"STORE": 1, "GYM": 1},
		Overnight:  []register.Row{rows[1]},
	}
}

func TestWriteCSV_ColumnContract(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleView()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Client", "ID", "Bike", "Brand", "Color", "Entry", "Exit"}, records[0])

	// sorted by entry timestamp descending: Bob's noon entry first
	assert.Equal(t, "Bob", records[1][0])
	assert.Equal(t, "987.654.321-11", records[1][1])
	assert.Equal(t, "Giant", records[1][2])
	assert.Equal(t, "", records[1][6], "open entry has empty exit column")

	assert.Equal(t, "Alice", records[2][0])
	assert.Equal(t, "10/03/2025 08:30", records[2][5])
	assert.Equal(t, "10/03/2025 18:15", records[2][6])
}

func TestWriteReport_FooterCounts(t *testing.T) {
	var buf bytes.Buffer
	icons := map[string]string{"GYM": "🏋"}
	require.NoError(t, WriteReport(&buf, sampleView(), icons))

	out := buf.String()
	assert.Contains(t, out, "Daily access register - 2025-03-10")
	assert.Contains(t, out, "Category")
	assert.Contains(t, out, "Total: 2")
	assert.Contains(t, out, "🏋 GYM: 1")
	assert.Contains(t, out, "STORE: 1")
	assert.Contains(t, out, "Overnight: 1")
}

func TestWriteReport_UncategorizedFallback(t *testing.T) {
	view := sampleView()
	view.Rows[0].Entry.Category = ""
	view.Rows[0].Client.Category = ""

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, view, nil))

	line := ""
	for _, l := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(l, "Alice") {
			line = l
			break
		}
	}
	require.NotEmpty(t, line)
	assert.Contains(t, line, register.UncategorizedLabel)
}

func TestStorageKey_Shape(t *testing.T) {
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	key := StorageKey(d, "csv")
	assert.True(t, strings.HasPrefix(key, "reports/2025/3/10/"), key)
	assert.True(t, strings.HasSuffix(key, ".csv"), key)
}
