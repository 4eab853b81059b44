package testsupport

// SampleCTM is a short word alignment with gaps and a seventh type column.
const SampleCTM = `uri1 1 1.410 0.220 So 0.990 lex
uri1 1 1.630 0.040 if 0.100 lex
uri1 1 1.670 0.070 a 0.100 lex
uri1 1 1.830 0.420 photon 0.990 lex
uri1 1 2.250 0.120 is 0.990 lex
uri1 1 2.370 0.370 directed 0.990 lex
uri1 1 2.770 0.120 through 0.990 lex
uri1 1 2.890 0.060 a 0.990 lex
uri1 1 2.950 0.350 plane 0.990 lex
`

// SampleSRT holds three cues separated by irregular blank lines, with
// multi-line captions.
const SampleSRT = `1
00:00:01,240 --> 00:00:03,834
If a photon is directed through a plane
with two slits in it...



2
00:00:04,000 --> 00:00:05,149
...and either is observed...


3
00:00:05,319 --> 00:00:07,549
...it will not go through both.
If unobserved. it will.
`
