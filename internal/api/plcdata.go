package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plcwatch/go-plc-alerts/internal/repository"
)

// MeasureSeries groups one control loop's samples by measure name, the
// shape the operator UI chart panel consumes.
type MeasureSeries struct {
	MeasureName   string         `json:"measure_name"`
	MeasureValues []MeasurePoint `json:"measure_values"`
}

type MeasurePoint struct {
	Timestamp    string `json:"timestamp"`
	TagName      string `json:"tag_name"`
	MeasureValue string `json:"measure_value"`
}

func (h *Handler) getPLCData(c *gin.Context) {
	loopName := c.Param("loop_name")
	start := c.Query("start")
	end := c.Query("end")

	if loopName == "" || start == "" || end == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "loop_name, start and end are required",
		})
		return
	}

	measurements, err := h.measurements.Query(c.Request.Context(), loopName, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query measurements"})
		return
	}
	if len(measurements) == 0 {
		c.JSON(http.StatusNotFound, []MeasureSeries{})
		return
	}

	c.JSON(http.StatusOK, shapeMeasurements(loopName, measurements))
}

// shapeMeasurements reshapes flat samples into per-measure series,
// preserving query (time) order inside each series. Tag names follow the
// historian convention <loop>_<measure>_pv.
func shapeMeasurements(loopName string, measurements []repository.Measurement) []MeasureSeries {
	var order []string
	byMeasure := make(map[string][]MeasurePoint)

	for _, m := range measurements {
		if _, ok := byMeasure[m.MeasureName]; !ok {
			order = append(order, m.MeasureName)
		}
		byMeasure[m.MeasureName] = append(byMeasure[m.MeasureName], MeasurePoint{
			Timestamp:    m.Timestamp,
			TagName:      loopName + "_" + m.MeasureName + "_pv",
			MeasureValue: m.Value,
		})
	}

	series := make([]MeasureSeries, 0, len(order))
	for _, name := range order {
		series = append(series, MeasureSeries{
			MeasureName:   name,
			MeasureValues: byMeasure[name],
		})
	}
	return series
}
