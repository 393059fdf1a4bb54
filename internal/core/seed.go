package core

// SeedDocument returns the built-in starting document: the 2025 APBDes
// perubahan of a sample village with placeholder header names. Every call
// returns freshly allocated slices.
func SeedDocument() Document {
	return Document{
		Header: Header{
			VillageName:       "....................",
			DistrictName:      "....................",
			HeadOfVillageName: "ISMAIL",
			Year:              2025,
		},
		Revenue: []LineItem{
			{ID: "pad1", Description: "Pendapatan Asli Desa", Initial: 40325000, Final: 40325000},
			{ID: "pad2", Description: "Hasil Aset Desa", Initial: 40325000, Final: 40325000},
			{ID: "pt1", Description: "Pendapatan Transfer", Initial: 1615553800, Final: 1615553800},
			{ID: "pt2", Description: "Dana Desa", Initial: 934850000, Final: 934850000},
			{ID: "pt3", Description: "Bagi Hasil Pajak dan Retribusi", Initial: 32206000, Final: 32206000},
			{ID: "pt4", Description: "Alokasi Dana Desa", Initial: 518497800, Final: 518497800},
			{ID: "pt5", Description: "Bantuan Keuangan Provinsi", Initial: 130000000, Final: 130000000},
			{ID: "pl1", Description: "Pendapatan Lain-lain", Initial: 2000000, Final: 2000000},
			{ID: "pl2", Description: "Bunga Bank", Initial: 2000000, Final: 2000000},
		},
		Expenditure: []Section{
			{
				ID:    "b1",
				Title: "BIDANG PENYELENGGARAAN PEMERINTAHAN DESA",
				Color: ColorBlue,
				Rows: []LineItem{
					{ID: "b1r1", Description: "Penyelenggaran Belanja Siltap, Tunjangan dan Operasional Pemerintahan Desa", Initial: 550550284, Final: 550550284},
					{ID: "b1r2", Description: "Penyediaan Sarana Prasarana Pemerintahan Desa", Initial: 148467993, Final: 148467993},
					{ID: "b1r3", Description: "Pengelolaan Administrasi Kependudukan, Pencatatan Sipil, Statistik dan Kearsipan", Initial: 40657800, Final: 40657800},
					{ID: "b1r4", Description: "Penyelenggaraan Tata Praja Pemerintahan, Perencanaan, Keuangan dan Pelaporan", Initial: 30761000, Final: 29161000},
					{ID: "b1r5", Description: "Sub Bidang Pertanahan", Initial: 7541834, Final: 7541834},
				},
			},
			{
				ID:    "b2",
				Title: "BIDANG PELAKSANAAN PEMBANGUNAN DESA",
				Color: ColorGreen,
				Rows: []LineItem{
					{ID: "b2r1", Description: "Sub Bidang Pendidikan", Initial: 42962000, Final: 38962000},
					{ID: "b2r2", Description: "Sub Bidang Kesehatan", Initial: 119900000, Final: 119900000},
					{ID: "b2r3", Description: "Sub Bidang Pekerjaan Umum dan Penataan Ruang", Initial: 737892178, Final: 775743978},
					{ID: "b2r4", Description: "Sub Bidang Kawasan Pemukiman", Initial: 40946000, Final: 40946000},
					{ID: "b2r5", Description: "Sub Bidang Perhubungan, Komunikasi dan Informatika", Initial: 1000000, Final: 1000000},
					{ID: "b2r6", Description: "Sub Bidang Pariwisata", Initial: 86447750, Final: 86447750},
				},
			},
			{
				ID:    "b3",
				Title: "BIDANG PEMBINAAN KEMASYARAKATAN",
				Color: ColorPurple,
				Rows: []LineItem{
					{ID: "b3r1", Description: "Sub Bidang Ketenteraman, Ketertiban Umum dan Perlindungan Masyarakat", Initial: 22799900, Final: 22799900},
					{ID: "b3r2", Description: "Sub Bidang Kebudayaan dan Keagamaan", Initial: 71000000, Final: 71000000},
					{ID: "b3r3", Description: "Sub Bidang Kepemudaan dan Olahraga", Initial: 45720000, Final: 41720000},
					{ID: "b3r4", Description: "Sub Bidang Kelembagaan Masyarakat", Initial: 14000000, Final: 14000000},
				},
			},
			{
				ID:    "b4",
				Title: "BIDANG PENANGGULANGAN BENCANA, DARURAT DAN MENDESAK DESA",
				Color: ColorAmber,
				Rows: []LineItem{
					{ID: "b4r1", Description: "Sub Bidang Penanggulangan Bencana", Initial: 10682400, Final: 10682400},
					{ID: "b4r2", Description: "Sub Bidang Keadaan Mendesak", Initial: 126000000, Final: 126000000},
				},
			},
			{
				ID:    "b5",
				Title: "BIDANG PEMBERDAYAAN MASYARAKAT",
				Color: ColorRose,
				Rows: []LineItem{
					{ID: "b5r1", Description: "Sub Bidang Kelautan dan Perikanan", Initial: 13857000, Final: 0},
					{ID: "b5r2", Description: "Sub Bidang Pertanian dan Peternakan", Initial: 64151000, Final: 5000000},
				},
			},
		},
		Financing: Financing{
			In: []LineItem{
				{ID: "fin1", Description: "Penerimaan Pembiayaan", Initial: 681171239, Final: 681171239},
				{ID: "fin2", Description: "SILPA Tahun Sebelumnya", Initial: 681171239, Final: 681171239},
			},
			Out: []LineItem{
				{ID: "fout1", Description: "Pengeluaran Pembiayaan", Initial: 163712900, Final: 208469100},
				{ID: "fout2", Description: "Pembentukan Dana Cadangan", Initial: 5000000, Final: 6600000},
				{ID: "fout3", Description: "Penyertaan Modal Desa", Initial: 158712900, Final: 201869100},
			},
		},
	}
}
