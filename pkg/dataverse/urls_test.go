package dataverse

import "testing"

func TestURLs(t *testing.T) {
	u := NewURLs("https://demo.dataverse.org/")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			"tree without parent",
			u.Tree(""),
			"https://demo.dataverse.org/api/info/metrics/tree",
		},
		{
			"tree with parent alias",
			u.Tree("sci"),
			"https://demo.dataverse.org/api/info/metrics/tree?parentAlias=sci",
		},
		{
			"contents",
			u.Contents(42),
			"https://demo.dataverse.org/api/dataverses/42/contents",
		},
		{
			"dataset version",
			u.DatasetVersion("latest-published", "doi:10.123/ABC"),
			"https://demo.dataverse.org/api/datasets/:persistentId/versions/:latest-published?persistentId=doi%3A10.123%2FABC",
		},
		{
			"assignments",
			u.Assignments(99),
			"https://demo.dataverse.org/api/datasets/99/assignments",
		},
		{
			"version probe",
			u.Version(),
			"https://demo.dataverse.org/api/info/version",
		},
		{
			"mydata probe",
			u.MyData(),
			"https://demo.dataverse.org/api/mydata/retrieve?role_ids=8&dvobject_types=Dataverse&published_states=Published&per_page=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q\nwant %q", tt.got, tt.want)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	valid := []string{"draft", "latest", "latest-published", "1", "2.3", "10.0"}
	for _, v := range valid {
		if err := ValidateVersion(v); err != nil {
			t.Errorf("ValidateVersion(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "newest", "1.2.3", "v1", "latest_published"}
	for _, v := range invalid {
		if err := ValidateVersion(v); err == nil {
			t.Errorf("ValidateVersion(%q) = nil, want error", v)
		}
	}
}
