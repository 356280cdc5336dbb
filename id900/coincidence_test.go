package id900

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanThreeFold(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		name           string
		d2, w2, d3, w3 int64
		process        int64
	}{
		{"arm 3 latest", 1000, 500, 2000, 500, 2500},
		{"arm 2 latest", 3000, 800, 100, 200, 3800},
		{"equal ends", 1000, 1000, 1500, 500, 2000},
		{"zero delays", 0, 300, 0, 100, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanThreeFold(tt.d2, tt.w2, tt.d3, tt.w3)
			require.Equal(tt.process, plan.Process)
			require.Equal(max(Arm{tt.d2, tt.w2}.End(), Arm{tt.d3, tt.w3}.End()), plan.Process)
			require.Len(plan.Windows, 9)
			require.Equal(plan, PlanThreeFold(tt.d2, tt.w2, tt.d3, tt.w3))

			// each direct arm window starts at its delay and spans width plus the trigger width
			require.Equal(Window{tt.d2, tt.d2 + tt.w2 + TriggerWidth}, plan.Windows[2])
			require.Equal(Window{tt.d3, tt.d3 + tt.w3 + TriggerWidth}, plan.Windows[3])
			require.Equal(tt.w2+TriggerWidth, plan.Windows[6].Width())
			require.Equal(tt.w3+TriggerWidth, plan.Windows[7].Width())
			// the delayed trigger copies mirror the arm windows around the process time
			require.Equal(plan.Process-tt.d2-tt.w2, plan.Windows[5].Start)
			require.Equal(plan.Process-tt.d3-tt.w3, plan.Windows[8].Start)
			require.Equal(plan.Windows[8], plan.Windows[9])
		})
	}
}

func TestPlanThreeFoldWindows(t *testing.T) {
	plan := PlanThreeFold(1000, 500, 2000, 300)

	require.EqualValues(t, 2300, plan.Process)
	require.Equal(t, map[int]Window{
		2:  {1000, 1501},
		3:  {2000, 2301},
		5:  {800, 1301},
		6:  {3300, 3801},
		7:  {4300, 4601},
		8:  {0, 301},
		9:  {0, 301},
		10: {1000, 1801},
		11: {2800, 3600},
	}, plan.Windows)
}

func TestConfig2FoldCoincidence(t *testing.T) {
	d, rec := newTestDevice(t)

	require.NoError(t, d.Config2FoldCoincidence(1000))
	require.Equal(t, []string{
		"TSCO5:INPO:FIR:LINK inpu1",
		"TSCO5:OPIN ONLYFIR",
		"TSCO5:OPOU ONLYFIR",
		"TSCO5:WIND:ENAB OFF",
		"TSCO6:INPO:FIR:LINK inpu2",
		"TSCO6:OPIN ONLYFIR",
		"TSCO6:OPOU ONLYFIR",
		"TSCO6:WIND:ENAB OFF",
		"HIST1:INPO:REF:LINK tsco5",
		"HIST1:INPO:STOP:LINK tsco6",
		"HIST1:ENAB:LINK tsge8",
		"HIST2:INPO:REF:LINK tsco6",
		"HIST2:INPO:STOP:LINK tsco5",
		"HIST2:ENAB:LINK tsge8",
	}, rec.cmds)
}

func TestConfig2FoldCoincidenceFailure(t *testing.T) {
	d, rec := newTestDevice(t)
	rec.failAt = 3

	err := d.Config2FoldCoincidence(1000)
	require.ErrorIs(t, err, errLinkDown)
	require.EqualError(t, err, "2-fold coincidence: link down")
	require.Len(t, rec.cmds, 3)
}

func TestConfig3FoldCoincidence(t *testing.T) {
	require := require.New(t)
	d, rec := newTestDevice(t)

	require.NoError(d.Config3FoldCoincidence(1000, 500, 2000, 300))

	// 3 generators, 7+6+12 first level, 3+3+6 second level, 11 histogram links
	require.Len(rec.cmds, 3+25+12+11)

	require.Equal([]string{
		"TSGE1:ENAB ON;:TSGE1:TRIG:INPO:LINK INPU1;:TSGE1:MODE SPULSE;TRIG:MODE INPORT;DELAY 2300;:TSGE1:SPUL:PWID 4000;",
		"TSGE2:ENAB ON;:TSGE2:TRIG:INPO:LINK INPU2;:TSGE2:MODE SPULSE;TRIG:MODE INPORT;DELAY 2300;:TSGE2:SPUL:PWID 4000;",
		"TSGE3:ENAB ON;:TSGE3:TRIG:INPO:LINK INPU3;:TSGE3:MODE SPULSE;TRIG:MODE INPORT;DELAY 2300;:TSGE3:SPUL:PWID 4000;",
	}, rec.cmds[:3])

	require.Equal([]string{"TSCO1:INPO:FIR:LINK inpu1"}, rec.commandsWithPrefix("TSCO1:"))
	require.Equal([]string{
		"TSCO2:INPO:FIR:LINK inpu2",
		"TSCO2:INPO:BEGIN:LINK inpu1;:TSCO2:INPO:END:LINK inpu1;",
		"TSCO2:WIND:BEGIN:DELAY 1000",
		"TSCO2:WIND:END:DELAY 1501",
	}, rec.commandsWithPrefix("TSCO2:"))
	require.Equal([]string{
		"TSCO5:INPO:FIR:LINK tsge1",
		"TSCO5:INPO:BEGIN:LINK inpu2;:TSCO5:INPO:END:LINK inpu2;",
		"TSCO5:WIND:BEGIN:DELAY 800",
		"TSCO5:WIND:END:DELAY 1301",
	}, rec.commandsWithPrefix("TSCO5:"))
	require.Equal([]string{
		"TSCO8:INPO:FIR:LINK tsge1",
		"TSCO8:INPO:BEGIN:LINK inpu3;:TSCO8:INPO:END:LINK inpu3;",
		"TSCO8:WIND:BEGIN:DELAY 0",
		"TSCO8:WIND:END:DELAY 301",
	}, rec.commandsWithPrefix("TSCO8:"))
	require.Equal([]string{
		"TSCO10:INPO:FIR:LINK tsco6",
		"TSCO10:INPO:BEGIN:LINK tsco3;:TSCO10:INPO:END:LINK tsco3;",
		"TSCO10:WIND:BEGIN:DELAY 1000",
		"TSCO10:WIND:END:DELAY 1801",
	}, rec.commandsWithPrefix("TSCO10:"))
	require.Equal([]string{
		"TSCO11:INPO:FIR:LINK tsco7",
		"TSCO11:INPO:BEGIN:LINK tsco2;:TSCO11:INPO:END:LINK tsco2;",
		"TSCO11:WIND:BEGIN:DELAY 2800",
		"TSCO11:WIND:END:DELAY 3600",
	}, rec.commandsWithPrefix("TSCO11:"))
	require.Empty(rec.commandsWithPrefix("TSCO4:"))
	require.Empty(rec.commandsWithPrefix("TSCO12:"))

	require.Equal([]string{
		"HIST1:INPO:REF:LINK tsco5",
		"HIST1:INPO:STOP:LINK tsco6",
		"HIST1:ENAB:LINK tsge8",
		"HIST2:INPO:REF:LINK tsco8",
		"HIST2:INPO:STOP:LINK tsco7",
		"HIST2:ENAB:LINK tsge8",
		"HIST3:INPO:REF:LINK tsco9",
		"HIST3:INPO:STOP:LINK tsco10",
		"HIST3:ENAB:LINK tsge8",
		"HIST4:INPO:STOP:LINK tsco2",
		"HIST4:ENAB:LINK tsge8",
	}, rec.cmds[len(rec.cmds)-11:])
}

func TestConfig3FoldCoincidenceFailure(t *testing.T) {
	d, rec := newTestDevice(t)
	rec.failAt = 5

	err := d.Config3FoldCoincidence(1000, 500, 2000, 300)
	require.ErrorIs(t, err, errLinkDown)
	require.ErrorContains(t, err, "3-fold coincidence")
	require.Len(t, rec.cmds, 5)
}
