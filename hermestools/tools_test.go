package hermestools_test

type column struct {
	Name     string
	Nullable bool
}

var columns = []column{
	{
		Name:     "id",
		Nullable: false,
	},
	{
		Name:     "nickname",
		Nullable: true,
	},
}
