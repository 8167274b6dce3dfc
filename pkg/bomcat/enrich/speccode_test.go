package enrich

import "testing"

func TestExtractSpecCode(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		wantClean string
		wantCode  string
	}{
		{
			"dotted code with revision",
			"Переключатель ПКн105 АЕНВ.431320.515-01ТУ",
			"Переключатель ПКн105",
			"АЕНВ.431320.515-01ТУ",
		},
		{
			"dotted code",
			"Конденсатор К10-17б АЛЯР.434110.005ТУ",
			"Конденсатор К10-17б",
			"АЛЯР.434110.005ТУ",
		},
		{
			"spaced dotted code",
			"Резистор Р1-12 ШКАБ.434110.002 ТУ",
			"Резистор Р1-12",
			"ШКАБ.434110.002 ТУ",
		},
		{
			"leading tu number",
			"Провод МГШВ ТУ 6329-019-07614320-99",
			"Провод МГШВ",
			"ТУ 6329-019-07614320-99",
		},
		{
			"undotted code",
			"Вентиль АЕЯР431200424-07ТУ волноводный",
			"Вентиль волноводный",
			"АЕЯР431200424-07ТУ",
		},
		{
			"no code",
			"Чип резистор 180 Ом 5% 0603",
			"Чип резистор 180 Ом 5% 0603",
			"",
		},
		{"empty", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clean, code := ExtractSpecCode(tc.text)
			if code != tc.wantCode {
				t.Fatalf("code = %q, want %q", code, tc.wantCode)
			}
			if clean != tc.wantClean {
				t.Fatalf("clean = %q, want %q", clean, tc.wantClean)
			}
		})
	}
}

func TestIsDomesticCode(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"АЕНВ.431320.515-01ТУ", true},
		{"ТУ 6329-019-07614320-99", true},
		{"", false},
		{"-", false},
		{"Murata", false},
		{"Analog Devices", false},
	}
	for _, tc := range cases {
		if got := IsDomesticCode(tc.code); got != tc.want {
			t.Errorf("IsDomesticCode(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
